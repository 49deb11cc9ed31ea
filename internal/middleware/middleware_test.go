package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bistro/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_token_secret_32_chars!"

func signToken(t *testing.T, email string, ttl time.Duration, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	claims := middleware.JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

type stubChecker struct {
	admins map[string]bool
	err    error
}

func (s stubChecker) IsAdmin(_ context.Context, email string) (bool, error) {
	return s.admins[email], s.err
}

func guardedRouter(checker middleware.AdminChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/me", middleware.JWTAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": middleware.ActorEmail(c)})
	})
	r.GET("/admin", middleware.JWTAuth(testSecret), middleware.RequireAdmin(checker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": middleware.ActorEmail(c)})
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

// ── JWTAuth ───────────────────────────────────────────────────────────────────

func TestJWTAuth_NoToken(t *testing.T) {
	w := do(guardedRouter(stubChecker{}), "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized access", messageOf(t, w))
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok := signToken(t, "guest@example.com", time.Hour, jwt.SigningMethodHS256, []byte(testSecret))
	w := do(guardedRouter(stubChecker{}), "/me", tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"guest@example.com"}`, w.Body.String())
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	tok := signToken(t, "guest@example.com", -time.Second, jwt.SigningMethodHS256, []byte(testSecret))
	assert.Equal(t, http.StatusUnauthorized, do(guardedRouter(stubChecker{}), "/me", tok).Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok := signToken(t, "guest@example.com", time.Hour, jwt.SigningMethodHS256, []byte("another-secret"))
	assert.Equal(t, http.StatusUnauthorized, do(guardedRouter(stubChecker{}), "/me", tok).Code)
}

func TestJWTAuth_RejectsUnsignedToken(t *testing.T) {
	tok := signToken(t, "guest@example.com", time.Hour, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)
	assert.Equal(t, http.StatusUnauthorized, do(guardedRouter(stubChecker{}), "/me", tok).Code)
}

func TestActorEmail_EmptyWithoutGuard(t *testing.T) {
	w := do(guardedRouter(stubChecker{}), "/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":""}`, w.Body.String())
}

// ── RequireAdmin ──────────────────────────────────────────────────────────────

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	tok := signToken(t, "guest@example.com", time.Hour, jwt.SigningMethodHS256, []byte(testSecret))
	w := do(guardedRouter(stubChecker{admins: map[string]bool{"boss@example.com": true}}), "/admin", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden access", messageOf(t, w))
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	tok := signToken(t, "boss@example.com", time.Hour, jwt.SigningMethodHS256, []byte(testSecret))
	w := do(guardedRouter(stubChecker{admins: map[string]bool{"boss@example.com": true}}), "/admin", tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_LookupFailureIs500(t *testing.T) {
	tok := signToken(t, "boss@example.com", time.Hour, jwt.SigningMethodHS256, []byte(testSecret))
	w := do(guardedRouter(stubChecker{err: errors.New("server selection timeout")}), "/admin", tok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", messageOf(t, w))
	assert.NotContains(t, w.Body.String(), "server selection")
}

// ── CORS ──────────────────────────────────────────────────────────────────────

func corsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestCORS_AllowListedOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	corsRouter().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	corsRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	corsRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ── Error handling ────────────────────────────────────────────────────────────

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := do(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", messageOf(t, w))
}

// ── Rate limiting ─────────────────────────────────────────────────────────────

func TestWindowLimiter_BlocksOverLimitAndResets(t *testing.T) {
	l := middleware.NewWindowLimiter(2, time.Minute)
	ok, _ := l.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow("1.2.3.4")
	assert.False(t, ok)

	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok, "limits are per ip")
}

func TestWindowLimiter_Middleware429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewWindowLimiter(1, time.Minute).Middleware("too many requests"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
	w := do(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestWindowLimiter_PurgeDropsExpired(t *testing.T) {
	now := time.Now()
	l := middleware.NewWindowLimiter(1, time.Minute)
	l.SetNow(func() time.Time { return now })
	l.Allow("1.2.3.4")

	assert.Zero(t, l.Purge())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Purge())

	ok, _ := l.Allow("1.2.3.4")
	assert.True(t, ok)
}
