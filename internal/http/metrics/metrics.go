package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Collector counts HTTP traffic for the Prometheus text endpoint.
type Collector struct {
	requests    uint64
	errors      uint64
	rateLimited uint64
	streams     int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) IncRateLimited() {
	atomic.AddUint64(&c.rateLimited, 1)
}

// StreamOpened tracks live server-sent event connections; call the returned
// func when the stream ends.
func (c *Collector) StreamOpened() func() {
	atomic.AddInt64(&c.streams, 1)
	return func() { atomic.AddInt64(&c.streams, -1) }
}

type Snapshot struct {
	Requests    uint64
	Errors      uint64
	RateLimited uint64
	Streams     int64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:    atomic.LoadUint64(&c.requests),
		Errors:      atomic.LoadUint64(&c.errors),
		RateLimited: atomic.LoadUint64(&c.rateLimited),
		Streams:     atomic.LoadInt64(&c.streams),
	}
}

type Handler struct {
	collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{collector: collector}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var snap Snapshot
	if h.collector != nil {
		snap = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeMetric(w, "gohire_http_requests_total", "counter", "Total number of HTTP requests.", snap.Requests)
	writeMetric(w, "gohire_http_errors_total", "counter", "Total number of 5xx HTTP responses.", snap.Errors)
	writeMetric(w, "gohire_http_rate_limited_total", "counter", "Requests refused by a rate limit.", snap.RateLimited)
	writeMetric(w, "gohire_chat_streams", "gauge", "Open chat event streams.", snap.Streams)
}

func writeMetric[T uint64 | int64](w http.ResponseWriter, name, kind, help string, value T) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
