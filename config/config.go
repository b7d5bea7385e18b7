package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type Config struct {
	Environment string
	ServerPort  string
	JWTSecret   string
	JWTTTL      time.Duration
	Database    DatabaseConfig
	LogLevel    string
	LogFormat   string
	SentryDSN   string
	CORSOrigins []string
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

// LoadConfig reads settings from the environment and, when CONFIG_FILE is set, from that
// file. Environment values win over the file.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("port", "5000")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "8h")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "hrms")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_max_open_conns", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("cors_origins", "")

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config read error: %w", err)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("jwt_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_TTL is not a duration: %w", err)
	}

	cfg := Config{
		Environment: v.GetString("environment"),
		ServerPort:  v.GetString("port"),
		JWTSecret:   v.GetString("jwt_secret"),
		JWTTTL:      ttl,
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("db_driver")),
			URL:          v.GetString("database_url"),
			Host:         v.GetString("db_host"),
			Port:         v.GetString("db_port"),
			User:         v.GetString("db_user"),
			Password:     v.GetString("db_password"),
			Name:         v.GetString("db_name"),
			SSLMode:      v.GetString("db_ssl_mode"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
		},
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		SentryDSN:   v.GetString("sentry_dsn"),
		CORSOrigins: splitList(v.GetString("cors_origins")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if strings.TrimSpace(c.ServerPort) == "" {
		return errors.New("PORT must not be empty")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
