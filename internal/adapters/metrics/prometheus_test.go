package metrics_adapter

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Exposition(t *testing.T) {
	m := NewPrometheusMetrics()
	m.CategoryClassified("ai")
	m.AIFallback("extract")
	m.MatchEvaluated("wanted", true)
	m.MatchEvaluated("wanted", false)
	m.NotificationCreated("wanted_match_buyer")
	m.ListingsArchived(3)
	m.ListingsArchived(0)
	m.ObserveHTTP("GET", "/api/v1/listings/{id}", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `listing_service_category_classifications_total{source="ai"} 1`)
	assert.Contains(t, out, `listing_service_ai_fallbacks_total{operation="extract"} 1`)
	assert.Contains(t, out, `listing_service_match_evaluations_total{kind="wanted",matched="true"} 1`)
	assert.Contains(t, out, `listing_service_match_evaluations_total{kind="wanted",matched="false"} 1`)
	assert.Contains(t, out, `listing_service_notifications_created_total{type="wanted_match_buyer"} 1`)
	assert.Contains(t, out, `listing_service_listings_archived_total 3`)
	assert.Contains(t, out, `listing_service_http_request_duration_seconds_count{method="GET",route="/api/v1/listings/{id}",status="200"} 1`)
}
