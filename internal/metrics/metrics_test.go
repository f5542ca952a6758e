package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ContractTransition("paid")
	m.ContractTransition("paid")
	m.Payment("payjp", "charge", nil)
	m.Payment("payjp", "charge", errors.New("declined"))
	m.LogGroupFailure("api_errors")
	m.EventPublished(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.contractTransitions.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("payjp", "charge", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("payjp", "charge", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logGroupFailures.WithLabelValues("api_errors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("success")))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/jobs", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cloudport_http_requests_total{method="GET",route="/jobs",status="200"} 1`))
	assert.True(t, strings.Contains(body, "cloudport_http_request_duration_seconds"))
}
