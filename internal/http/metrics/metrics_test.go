package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesCounters(t *testing.T) {
	c := NewCollector()
	c.IncRequests()
	c.IncRequests()
	c.IncErrors()
	c.IncRateLimited()
	done := c.StreamOpened()

	rec := httptest.NewRecorder()
	NewHandler(c).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "gohire_http_requests_total 2\n")
	assert.Contains(t, body, "gohire_http_errors_total 1\n")
	assert.Contains(t, body, "gohire_http_rate_limited_total 1\n")
	assert.Contains(t, body, "gohire_chat_streams 1\n")

	done()
	assert.Equal(t, int64(0), c.Snapshot().Streams)
}
