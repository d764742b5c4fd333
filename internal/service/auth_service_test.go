package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/formaplan/formaplan-api/internal/models"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type fakeAuthRepo struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newFakeAuthRepo(users ...*models.User) *fakeAuthRepo {
	repo := &fakeAuthRepo{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeAuthRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, id, hash string, _ time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	copied := *token
	f.tokens[token.Token] = &copied
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

type fakeLock struct {
	acquired []string
	released []string
	err      error
}

func (f *fakeLock) Acquire(_ context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.acquired = append(f.acquired, sessionID)
	return nil
}

func (f *fakeLock) Release(_ context.Context, sessionID string) {
	f.released = append(f.released, sessionID)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func authConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "formaplan-test",
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "coordinator@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		FullName:     "Pat",
		Role:         models.RoleCoordinator,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, nil, nil, authConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleCoordinator, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "coordinator@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleCoordinator,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "wrong",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "gone@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleTrainer,
		Active:       false,
	})
	svc := NewAuthService(repo, nil, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "gone@example.com",
		Password: "secret-password",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceAdminLoginAcquiresLock(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "admin1",
		Email:        "admin@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleAdmin,
		Active:       true,
	})
	lock := &fakeLock{}
	svc := NewAuthService(repo, lock, nil, nil, authConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin1"}, lock.acquired)

	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken, "admin1"))
	assert.Equal(t, []string{"admin1"}, lock.released)
}

func TestAuthServiceAdminLoginRejectedWhenLockHeld(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "admin2",
		Email:        "admin2@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleAdmin,
		Active:       true,
	})
	lock := &fakeLock{err: appErrors.Clone(appErrors.ErrLockHeld, "")}
	svc := NewAuthService(repo, lock, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin2@example.com",
		Password: "secret-password",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLockHeld.Code, appErr.Code)
}

func TestAuthServiceCoordinatorLoginSkipsLock(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "coordinator@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleCoordinator,
		Active:       true,
	})
	lock := &fakeLock{err: appErrors.Clone(appErrors.ErrLockHeld, "")}
	svc := NewAuthService(repo, lock, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "secret-password",
	})
	assert.NoError(t, err)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "coordinator@example.com",
		PasswordHash: hashPassword(t, "secret-password"),
		Role:         models.RoleCoordinator,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, nil, nil, authConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, nil, authConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestAuthServiceChangePasswordRevokesSessions(t *testing.T) {
	repo := newFakeAuthRepo(&models.User{
		ID:           "u1",
		Email:        "coordinator@example.com",
		PasswordHash: hashPassword(t, "old-password"),
		Role:         models.RoleCoordinator,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, nil, nil, authConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "old-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), "u1", "old-password", "brand-new-password"))

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "coordinator@example.com",
		Password: "brand-new-password",
	})
	assert.NoError(t, err)
}
