package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/jwt"
	authService "github.com/schoolworks/staff-backend-go/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
)

type fakeUserRepo struct {
	users map[string]user.User // keyed by email
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := r.users[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.users[newUser.Email] = newUser
	return newUser, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	for email, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			r.users[email] = u
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (r *fakeUserRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return nil
}

func (r *fakeUserRepo) GetAdminIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

type noopAuditService struct{}

func (noopAuditService) Record(ctx context.Context, event audit.Event) {}
func (noopAuditService) ListEvents(ctx context.Context, filter audit.Filter) (audit.ListEventResponse, error) {
	return audit.ListEventResponse{}, nil
}
func (noopAuditService) GetEvent(ctx context.Context, id string) (audit.EventResponse, error) {
	return audit.EventResponse{}, audit.ErrEventNotFound
}
func (noopAuditService) Stop() {}

func newTestAuthHandler(t *testing.T) (AuthHandler, jwt.Service) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]user.User{
		"admin@example.com": {
			ID:           "user-1",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Role:         user.RoleAdmin,
			IsActive:     true,
		},
	}}

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	svc := authService.NewAuthService(repo, jwtService, noopAuditService{})

	return NewAuthHandler(jwtService, svc), jwtService
}

func TestLoginHandler_Success(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)

	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "refresh_token" && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "refresh_token cookie set")
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@example.com",
		"password": "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandler_InvalidBody(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshHandler_MissingCookie(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()

	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshHandler_Success(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	loginRec := httptest.NewRecorder()
	handler.Login(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	refreshReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	for _, c := range loginRec.Result().Cookies() {
		refreshReq.AddCookie(c)
	}
	refreshRec := httptest.NewRecorder()
	handler.RefreshToken(refreshRec, refreshReq)

	require.Equal(t, http.StatusOK, refreshRec.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(refreshRec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
}
