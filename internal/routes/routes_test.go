package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/metrics"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{
		JWTSecret:            "x",
		OpeningHoursCacheTTL: time.Minute,
		SnapshotTTL:          time.Second,
		BookingLockTTL:       time.Second,
	}

	r := gin.New()
	RegisterRoutes(r, nil, cfg, Infra{
		Log:      zap.NewNop(),
		Hub:      realtime.NewHub(nil),
		Metrics:  metrics.NewBookingMetrics(reg),
		Gatherer: reg,
	})
	return r
}

func TestOperationalRoutes(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{
		"/api/me",
		"/api/me/availability?date=2030-01-07&service_id=1",
		"/api/me/opening-hours",
		"/api/me/services",
		"/api/me/appointments/stream",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
