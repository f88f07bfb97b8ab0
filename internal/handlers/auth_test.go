package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monbijou/storefront/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"email":    "bride@example.com",
		"name":     "Thandi",
		"password": "password",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	decodeBody(t, rec, &user)
	require.Equal(t, "bride@example.com", user.Email)
	require.Equal(t, "customer", user.Role)
	require.NotEmpty(t, user.ID)

	// same email again is a conflict
	_, c2 := env.doJSONRequest(http.MethodPost, "/register", payload)
	requireHTTPError(t, env.Auth.Register(c2), http.StatusConflict)
}

func TestRegisterRequiresFields(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/register", map[string]string{
		"email": "bride@example.com",
	})
	requireHTTPError(t, env.Auth.Register(c), http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "bride@example.com", "customer")

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"email":    "bride@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.Equal(t, false, resp["is_admin"])

	var cookieNames []string
	for _, ck := range rec.Result().Cookies() {
		cookieNames = append(cookieNames, ck.Name)
	}
	require.Contains(t, cookieNames, "accessToken")
	require.Contains(t, cookieNames, "refreshToken")

	var saved models.RefreshToken
	require.NoError(t, env.DB.First(&saved).Error)
	require.False(t, saved.Revoked)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "bride@example.com", "customer")

	_, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"email":    "bride@example.com",
		"password": "wrong",
	})
	requireHTTPError(t, env.Auth.Login(c), http.StatusUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "bride@example.com", "customer")

	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"email":    "bride@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(cLogin))

	var refreshCookie *http.Cookie
	for _, ck := range recLogin.Result().Cookies() {
		if ck.Name == "refreshToken" {
			refreshCookie = ck
		}
	}
	require.NotNil(t, refreshCookie)

	rec, c := env.doJSONRequest(http.MethodPost, "/logout", nil, refreshCookie)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var saved models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refreshCookie.Value).First(&saved).Error)
	require.True(t, saved.Revoked)
}
