package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/pkg/config"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

type stubUserStore struct {
	user        *models.User
	lastLoginID string
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserStore) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	s.lastLoginID = userID
	return nil
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		SchoolID:     "school-1",
		Email:        "teacher@school.ng",
		PasswordHash: string(hash),
		FullName:     "Adaeze Obi",
		Role:         models.RoleTeacher,
		Active:       true,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}
}

func TestLoginSuccess(t *testing.T) {
	store := &stubUserStore{user: testUser(t, "correct-horse")}
	svc := NewAuthService(store, testJWTConfig(), nil, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.ng", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "school-1", resp.User.SchoolID)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Equal(t, "user-1", store.lastLoginID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "school-1", claims.SchoolID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(&stubUserStore{user: testUser(t, "correct-horse")}, testJWTConfig(), nil, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.ng", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&stubUserStore{}, testJWTConfig(), nil, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@school.ng", Password: "whatever"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := testUser(t, "correct-horse")
	user.Active = false
	svc := NewAuthService(&stubUserStore{user: user}, testJWTConfig(), nil, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.ng", Password: "correct-horse"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(&stubUserStore{user: testUser(t, "pw")}, testJWTConfig(), nil, nil)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.ng", Password: "pw"})
	require.NoError(t, err)

	other := NewAuthService(&stubUserStore{}, config.JWTConfig{Secret: "different", Expiration: time.Hour}, nil, nil)
	_, err = other.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
