package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
)

const testSecret = "middleware-test-secret"

func signedToken(t *testing.T, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Hour,
	})
}

func testRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected/:id", chain...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	return doRequestPath(r, token, "/protected/any")
}

func doRequestPath(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r := testRouter(JWT(testAuthService()))
	rec := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsGarbageToken(t *testing.T) {
	r := testRouter(JWT(testAuthService()))
	rec := doRequest(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token := signedToken(t, &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleCoordinator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	r := testRouter(JWT(testAuthService()))
	rec := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	token := signedToken(t, &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleCoordinator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	r := testRouter(JWT(testAuthService()))
	rec := doRequest(r, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	token := signedToken(t, &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleCoordinator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	r := testRouter(JWT(testAuthService()), RequireRoles(models.RoleAdmin, models.RoleCoordinator))
	rec := doRequest(r, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRBACDeniesOtherRole(t *testing.T) {
	token := signedToken(t, &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleTrainer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	r := testRouter(JWT(testAuthService()), RequireRoles(models.RoleAdmin))
	rec := doRequest(r, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRBACSelfMatchesTrainerID(t *testing.T) {
	trainerID := "t42"
	token := signedToken(t, &models.JWTClaims{
		UserID:    "u1",
		Role:      models.RoleTrainer,
		TrainerID: &trainerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	r := testRouter(JWT(testAuthService()), RBAC(string(models.RoleAdmin), RoleSelf))

	rec := doRequestPath(r, token, "/protected/t42")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequestPath(r, token, "/protected/t99")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
