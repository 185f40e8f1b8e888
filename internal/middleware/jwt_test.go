package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/internal/service"
	"github.com/edumetrics-ng/results-api/pkg/config"
)

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserStore) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

func testAuthService(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &stubUserStore{user: &models.User{
		ID:           "user-1",
		SchoolID:     "school-1",
		Email:        "teacher@school.ng",
		PasswordHash: string(hash),
		FullName:     "Adaeze Obi",
		Role:         models.RoleTeacher,
		Active:       true,
	}}
	svc := service.NewAuthService(store, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}, nil, nil)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.ng", Password: "pw"})
	require.NoError(t, err)
	return svc, resp.AccessToken
}

func TestJWTSetsClaimsAndSchool(t *testing.T) {
	authSvc, token := testAuthService(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var gotSchool string
	var gotClaims *models.JWTClaims
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) {
		gotSchool = c.GetString(ContextSchoolKey)
		if v, ok := c.Get(ContextUserKey); ok {
			gotClaims, _ = v.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "school-1", gotSchool)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user-1", gotClaims.UserID)
	assert.Equal(t, "school-1", gotClaims.SchoolID)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	authSvc, _ := testAuthService(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	authSvc, token := testAuthService(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
