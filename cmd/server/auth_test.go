package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", registerRequest{
		Email:       "  Alice@Example.com ",
		DisplayName: "Alice",
		Password:    "hunter22hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[authResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, 25, resp.User.DefaultPlannedMinutes)
	assert.Equal(t, "pomodoro", resp.User.DefaultKind)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", registerRequest{
		Email:    "short@example.com",
		Password: "hunter2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Contains(t, resp.Fields, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "dupe@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", registerRequest{
		Email:       "dupe@example.com",
		DisplayName: "Second Tester",
		Password:    "correct horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "login@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "login@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[authResponse](t, w)
	assert.NotEmpty(t, resp.Token)

	// issued token is accepted by protected routes
	w = env.do(t, http.MethodGet, "/api/users/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "badcreds@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "badcreds@example.com",
		Password: "wrong horse",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/timers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/timers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv()
	token, _ := registerUser(t, env, "prefs@example.com")

	w := env.do(t, http.MethodPut, "/api/users/me", token, updateUserRequest{
		DisplayName:           "Night Owl",
		DefaultPlannedMinutes: 50,
		DefaultKind:           "focus",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[userResponse](t, w)
	assert.Equal(t, "Night Owl", resp.DisplayName)
	assert.Equal(t, 50, resp.DefaultPlannedMinutes)
	assert.Equal(t, "focus", resp.DefaultKind)

	w = env.do(t, http.MethodPut, "/api/users/me", token, updateUserRequest{DefaultKind: "sprint"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
