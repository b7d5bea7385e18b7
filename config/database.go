package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hrms/models"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DSN returns the connection string for the configured driver. DATABASE_URL wins over the
// individual DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case DriverSQLite:
		return d.Name + ".db"
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
}

// Open connects with the dialector matching driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	switch driver {
	case DriverPostgres:
		return gorm.Open(postgres.Open(dsn), gormConfig)
	case DriverMySQL:
		return gorm.Open(mysql.Open(dsn), gormConfig)
	case DriverSQLite:
		return gorm.Open(sqlite.Open(dsn), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// ConnectDB opens the store, sizes the pool, pings it and migrates the schema. The returned
// handle is the one every controller receives.
func ConnectDB(cfg DatabaseConfig, logger *logrus.Logger) (*gorm.DB, error) {
	dsn := cfg.DSN()
	logger.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"dsn":    maskPassword(dsn),
	}).Info("Connecting to database")

	db, err := Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Connected to database")

	if err := MigrateDB(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	logger.Info("Database migration completed")
	return db, nil
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// maskPassword hides the password in both key=value and URL style DSNs.
func maskPassword(dsn string) string {
	const passwordMarker = "password="
	if startIdx := strings.Index(dsn, passwordMarker); startIdx != -1 {
		startIdx += len(passwordMarker)
		endIdx := strings.IndexAny(dsn[startIdx:], " &")
		if endIdx == -1 {
			return dsn[:startIdx] + "*****"
		}
		return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
	}

	// user:password@host
	at := strings.LastIndex(dsn, "@")
	if at == -1 {
		return dsn
	}
	prefix := dsn[:at]
	colon := strings.LastIndex(prefix, ":")
	if scheme := strings.Index(prefix, "://"); colon == -1 || (scheme != -1 && colon <= scheme) {
		return dsn
	}
	return prefix[:colon+1] + "*****" + dsn[at:]
}
