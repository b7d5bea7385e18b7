package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hrms/config"
	"hrms/middleware"
	"hrms/models"
	"hrms/utils"
)

const testUserHeader = "X-Test-User"

type testEnv struct {
	db      *gorm.DB
	app     *fiber.App
	metrics *utils.Metrics
	tokens  *utils.TokenService

	// acme and globex are two seeded tenants with one admin each.
	acme   utils.Identity
	globex utils.Identity
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.MigrateDB(db))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, orgName, email string) utils.Identity {
	t.Helper()

	org := models.Organisation{Name: orgName}
	require.NoError(t, db.Create(&org).Error)

	hash, err := utils.HashPassword("secret")
	require.NoError(t, err)
	user := models.User{OrganisationID: org.ID, Name: orgName + " Admin", Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)

	return utils.Identity{UserID: user.ID, OrganisationID: org.ID}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		db:      newTestDB(t),
		metrics: utils.NewMetrics(prometheus.NewRegistry()),
		tokens:  utils.NewTokenService("test-secret", utils.DefaultTokenTTL),
	}
	env.acme = seedTenant(t, env.db, "Acme", "alice@acme.test")
	env.globex = seedTenant(t, env.db, "Globex", "gina@globex.test")

	identities := map[string]utils.Identity{
		"acme":   env.acme,
		"globex": env.globex,
	}

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger)})
	app.Use(func(c *fiber.Ctx) error {
		if identity, ok := identities[c.Get(testUserHeader)]; ok {
			middleware.SetIdentity(c, identity)
		}
		return c.Next()
	})

	auditor := NewAuditor(env.metrics)
	authController := NewAuthController(env.db, env.tokens, auditor, logger)
	employeeController := NewEmployeeController(env.db, auditor, logger)
	teamController := NewTeamController(env.db, auditor, logger)
	logController := NewLogController(env.db, logger)

	app.Post("/auth/register", authController.Register)
	app.Post("/auth/login", authController.Login)

	app.Get("/employees", employeeController.GetEmployees)
	app.Get("/employees/:id", employeeController.GetEmployee)
	app.Post("/employees", employeeController.CreateEmployee)
	app.Put("/employees/:id", employeeController.UpdateEmployee)
	app.Delete("/employees/:id", employeeController.DeleteEmployee)

	app.Get("/teams", teamController.GetTeams)
	app.Get("/teams/:id", teamController.GetTeam)
	app.Post("/teams", teamController.CreateTeam)
	app.Put("/teams/:id", teamController.UpdateTeam)
	app.Delete("/teams/:id", teamController.DeleteTeam)
	app.Post("/teams/:teamId/assign", teamController.AssignEmployees)
	app.Delete("/teams/:teamId/unassign", teamController.UnassignEmployee)

	app.Get("/logs", logController.GetLogs)

	env.app = app
	return env
}

// do sends a request as user ("acme", "globex" or "" for anonymous). A nil body sends no
// body at all.
func (e *testEnv) do(t *testing.T, method, path, user string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func (e *testEnv) logs(t *testing.T, organisationID uint) []models.Log {
	t.Helper()
	var logs []models.Log
	require.NoError(t, e.db.Where("organisation_id = ?", organisationID).Order("id").Find(&logs).Error)
	return logs
}

func (e *testEnv) createEmployee(t *testing.T, user, first, last string) models.Employee {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/employees", user, fiber.Map{"firstName": first, "lastName": last})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[models.Employee](t, body)
}

func (e *testEnv) createTeam(t *testing.T, user, name string) models.Team {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/teams", user, fiber.Map{"name": name})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[models.Team](t, body)
}
