package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	identityapp "github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountRouter(t *testing.T, values map[string]any) (*gin.Engine, *testEnv, *identityapp.AccountResponse) {
	t.Helper()
	env := newTestEnv(t)
	account, err := env.account.Create(context.Background(), identityapp.AccountRequest{
		Username: "linh",
		Password: "s3cret-pass",
		Role:     "employee",
		Email:    "linh@example.com",
	})
	require.NoError(t, err)

	h := NewAccountHandler(env.auth, env.account, env.report)
	r := newTestRouter(values)
	g := r.Group("/api/account")
	g.POST("/login", h.Login)
	g.GET("/me", h.Me)
	g.GET("/count", h.Count)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	return r, env, account
}

func TestAccountHandler_Login(t *testing.T) {
	r, env, account := setupAccountRouter(t, nil)

	w := performRequest(r, http.MethodPost, "/api/account/login", map[string]string{
		"username": "linh",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON[identityapp.LoginResponse](t, w)
	require.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.Expiration, time.Minute)

	claims, err := env.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, "employee", claims.Role)
}

func TestAccountHandler_Login_Failures(t *testing.T) {
	r, _, _ := setupAccountRouter(t, nil)

	tests := []struct {
		name     string
		body     map[string]string
		status   int
		wantCode string
	}{
		{"wrong password", map[string]string{"username": "linh", "password": "nope"}, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"unknown user", map[string]string{"username": "ghost", "password": "s3cret-pass"}, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"missing password", map[string]string{"username": "linh"}, http.StatusBadRequest, dto.ErrCodeValidation},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/api/account/login", tt.body)
			assert.Equal(t, tt.status, w.Code)

			resp := decodeJSON[dto.Response](t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.status == http.StatusUnauthorized {
				messages = append(messages, resp.Error.Message)
			}
		})
	}

	require.Len(t, messages, 2)
	assert.Equal(t, messages[0], messages[1], "credential failures must not reveal which part was wrong")
	assert.Equal(t, "invalid username or password", messages[0])
}

func TestAccountHandler_Me(t *testing.T) {
	env := newTestEnv(t)
	account, err := env.account.Create(context.Background(), identityapp.AccountRequest{
		Username: "admin",
		Password: "admin-pass",
		Role:     "admin",
	})
	require.NoError(t, err)

	h := NewAccountHandler(env.auth, env.account, env.report)
	r := newTestRouter(map[string]any{middleware.JWTUserIDKey: account.ID})
	r.GET("/api/account/me", h.Me)

	w := performRequest(r, http.MethodGet, "/api/account/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeJSON[identityapp.AccountResponse](t, w)
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, "admin", me.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAccountHandler_Create(t *testing.T) {
	r, _, account := setupAccountRouter(t, nil)

	t.Run("duplicate username", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/account", map[string]string{
			"username": "linh",
			"password": "other-pass",
			"role":     "employee",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, errorCode(t, w))
	})

	t.Run("unknown role", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/account", map[string]string{
			"username": "minh",
			"password": "other-pass",
			"role":     "owner",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("created", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/account", map[string]string{
			"username": "minh",
			"password": "other-pass",
			"role":     "admin",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotEqual(t, account.ID, decodeJSON[identityapp.AccountResponse](t, w).ID)

		w = performRequest(r, http.MethodGet, "/api/account/count", nil)
		assert.Equal(t, "2", w.Body.String())
	})
}
