package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/models"
	"hrms/utils"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"orgName":   "Initech",
		"adminName": "Peter",
		"email":     " Peter@Initech.test ",
		"password":  "secret",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	resp := decode[AuthResponse](t, body)
	assert.Equal(t, "Peter", resp.User.Name)
	assert.Equal(t, "peter@initech.test", resp.User.Email)
	assert.NotContains(t, string(body), "passwordHash")

	identity, err := env.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, resp.User.OrganisationID, identity.OrganisationID)

	var org models.Organisation
	require.NoError(t, env.db.First(&org, identity.OrganisationID).Error)
	assert.Equal(t, "Initech", org.Name)

	logs := env.logs(t, identity.OrganisationID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionOrganisationCreated, logs[0].Action)
	assert.Equal(t, identity.UserID, logs[0].UserID)
	assert.JSONEq(t, `{"organisationId":`+itoa(identity.OrganisationID)+`}`, string(logs[0].Meta))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	var before int64
	require.NoError(t, env.db.Model(&models.Organisation{}).Count(&before).Error)

	status, body := env.do(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"orgName":   "Acme Two",
		"adminName": "Alice",
		"email":     "ALICE@acme.test",
		"password":  "secret",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, utils.CodeDuplicateEmail, decode[errorBody](t, body).Code)

	var after int64
	require.NoError(t, env.db.Model(&models.Organisation{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{name: "missing org name", body: fiber.Map{"adminName": "A", "email": "a@b.test", "password": "x"}},
		{name: "blank admin name", body: fiber.Map{"orgName": "O", "adminName": "   ", "email": "a@b.test", "password": "x"}},
		{name: "missing email", body: fiber.Map{"orgName": "O", "adminName": "A", "password": "x"}},
		{name: "missing password", body: fiber.Map{"orgName": "O", "adminName": "A", "email": "a@b.test"}},
		{name: "malformed email", body: fiber.Map{"orgName": "O", "adminName": "A", "email": "not-an-email", "password": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, utils.CodeValidation, decode[errorBody](t, body).Code)
		})
	}

	var orgs int64
	require.NoError(t, env.db.Model(&models.Organisation{}).Count(&orgs).Error)
	assert.EqualValues(t, 2, orgs)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "Alice@Acme.test",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	resp := decode[AuthResponse](t, body)
	identity, err := env.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, env.acme, identity)

	logs := env.logs(t, env.acme.OrganisationID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionUserLoggedIn, logs[0].Action)
	assert.Equal(t, env.acme.UserID, logs[0].UserID)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	wrongPasswordStatus, wrongPassword := env.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@acme.test",
		"password": "nope",
	})
	unknownUserStatus, unknownUser := env.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "nobody@acme.test",
		"password": "secret",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPasswordStatus)
	assert.Equal(t, wrongPasswordStatus, unknownUserStatus)
	assert.Equal(t, string(wrongPassword), string(unknownUser))
	assert.Equal(t, utils.CodeInvalidCredentials, decode[errorBody](t, wrongPassword).Code)

	assert.Empty(t, env.logs(t, env.acme.OrganisationID))
}

func TestLogin_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/auth/login", "", "not an object")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, utils.CodeValidation, decode[errorBody](t, body).Code)
}
