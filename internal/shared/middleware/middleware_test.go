package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boletamaster/internal/shared/config"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID, role, tokenType string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   "someone@example.com",
		"role":    role,
		"type":    tokenType,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newEngine(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	engine := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthWithConfig(cfg)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, err := CurrentUserID(c)
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	engine.GET("/private", handlers...)
	return engine
}

func call(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	userID := uuid.New()
	engine := newEngine()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + signToken(t, "other", userID.String(), "CLIENT", "access"), http.StatusUnauthorized},
		{"refresh token", "Bearer " + signToken(t, testSecret, userID.String(), "CLIENT", "refresh"), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, userID.String(), "CLIENT", "access"), http.StatusOK},
		{"malformed subject", "Bearer " + signToken(t, testSecret, "nope", "CLIENT", "access"), http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(engine, tt.header)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := call(engine, "Bearer "+signToken(t, testSecret, userID.String(), "CLIENT", "access"))
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	engine := newEngine(string(users.RoleOrganizer), string(users.RoleAdmin))
	id := uuid.NewString()

	assert.Equal(t, http.StatusOK, call(engine, "Bearer "+signToken(t, testSecret, id, "ORGANIZER", "access")).Code)
	assert.Equal(t, http.StatusOK, call(engine, "Bearer "+signToken(t, testSecret, id, "ADMIN", "access")).Code)
	assert.Equal(t, http.StatusForbidden, call(engine, "Bearer "+signToken(t, testSecret, id, "CLIENT", "access")).Code)
}

func TestCurrentUserIDWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := CurrentUserID(c)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
