package auth

import (
	"context"
	"testing"

	"github.com/schoolworks/staff-backend-go/internal/domain/auth"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeUserRepo struct {
	users map[string]user.User // keyed by email
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
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
	for email, u := range r.users {
		if u.ID == userID {
			u.IsActive = active
			r.users[email] = u
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (r *fakeUserRepo) GetAdminIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, u := range r.users {
		if u.Role == user.RoleAdmin && u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func testUser(t *testing.T, id, email, password string, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return user.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleStaff,
		IsActive:     active,
	}
}

func newTestAuthService(repo user.UserRepository) auth.AuthService {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	return NewAuthService(repo, jwtService, nil)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "password123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, resp.RefreshTokenExpiresIn, int64(0))
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "wrongpassword"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@school.test", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "former@school.test", "password123", false))
	svc := newTestAuthService(repo)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "former@school.test", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrAccountDeactivated)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	loginResp, err := svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.RefreshToken})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	loginResp, err := svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.AccessToken})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	loginResp, err := svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, loginResp.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(ctx, "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "newpassword456"})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "teacher@school.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo(testUser(t, "user-1", "teacher@school.test", "password123", true))
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(ctx, "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "wrongpassword",
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
