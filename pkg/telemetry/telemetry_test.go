package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "price-settings-test"})
	require.NoError(t, err)
	require.NotNil(t, tel)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestInstruments_NoopProvider(t *testing.T) {
	counter, err := NewCounter(MetricOpts{Name: "test_counter_total", Description: "test", Unit: "1"})
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	hist, err := NewHistogram(MetricOpts{Name: "test_duration_seconds", Description: "test", Unit: "s"})
	require.NoError(t, err)
	hist.Record(context.Background(), 0.25)

	var nilCounter *Counter
	assert.NotPanics(t, func() { nilCounter.Add(context.Background(), 1) })
}

func TestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingMiddleware("price-settings-test"))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
