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
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":       c.MustGet(ContextUserID),
			"barbershop": c.MustGet(ContextBarbershopID),
			"role":       c.MustGet(ContextUserRole),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	valid := signedToken(t, "s3cret", jwt.MapClaims{
		"sub": 7, "barbershopId": 1, "role": "owner",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signedToken(t, "s3cret", jwt.MapClaims{
		"sub": 7, "barbershopId": 1,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signedToken(t, "other", jwt.MapClaims{"sub": 7, "barbershopId": 1})
	noShop := signedToken(t, "s3cret", jwt.MapClaims{"sub": 7})

	tests := []struct {
		name    string
		url     string
		headers map[string]string
		status  int
		body    string
	}{
		{"valid bearer", "/me", map[string]string{"Authorization": "Bearer " + valid}, 200, `"barbershop":1`},
		{"missing header", "/me", nil, 401, "missing_authorization_header"},
		{"wrong scheme", "/me", map[string]string{"Authorization": "Basic abc"}, 401, "invalid_authorization_header"},
		{"expired", "/me", map[string]string{"Authorization": "Bearer " + expired}, 401, "invalid_token"},
		{"wrong key", "/me", map[string]string{"Authorization": "Bearer " + wrongKey}, 401, "invalid_token"},
		{"missing barbershop claim", "/me", map[string]string{"Authorization": "Bearer " + noShop}, 401, "invalid_token_payload"},
		{"websocket query token", "/me?token=" + valid, map[string]string{"Upgrade": "websocket"}, 200, `"user":7`},
		{"query token ignored without upgrade", "/me?token=" + valid, nil, 401, "missing_authorization_header"},
	}

	r := authRouter(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(200, c.GetString(ContextRequestID)) })

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	})
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)), Recovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(200) })
	r.GET("/bad", func(c *gin.Context) { c.Status(409) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/health", func(c *gin.Context) { c.Status(200) })

	for _, p := range []string{"/ok", "/bad", "/boom", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 3)
	assert.Equal(t, zap.InfoLevel, requests[0].Level)
	assert.Equal(t, zap.WarnLevel, requests[1].Level)
	assert.Equal(t, zap.ErrorLevel, requests[2].Level)
	assert.Equal(t, int64(500), requests[2].ContextMap()["status"])
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
