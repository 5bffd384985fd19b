package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/e-course-backend/models"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
		"fullName": "Alice",
		"role":     "teacher",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "teacher", user["role"])
	assert.NotContains(t, user, "password")

	// Duplicate email is rejected.
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
		"fullName": "Alice Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
		"fullName": "Bob",
		"role":     "admin", // privileged roles cannot be self-assigned
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "student", user["role"])
}

func TestProfileAndChangePassword(t *testing.T) {
	r, db := setupTestRouter(t)
	user, token := createTestUser(t, db, models.RoleStudent)

	w := doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, user.Email, data["email"])

	w = doJSON(r, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"oldPassword": "secret123",
		"newPassword": "evenbetter456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "evenbetter456",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Wrong current password is rejected.
	w = doJSON(r, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"oldPassword": "nope",
		"newPassword": "whatever789",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
