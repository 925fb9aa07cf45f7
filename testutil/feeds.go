package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
)

// FeedJSON renders a gas station response with a single price level. Values
// are in feed units (tenths of gwei).
func FeedJSON(level string, value float64) string {
	return fmt.Sprintf(`{%q: %v, "block_time": 13.2}`, level, value)
}

// NewFeedServer starts an HTTP server that answers every request with the
// given body. The caller owns the server and must Close it.
func NewFeedServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
}

// NewFlakyFeedServer starts an HTTP server that fails the first failures
// requests with a 500 and then answers with the given body, for exercising
// refresh-loop resilience.
func NewFlakyFeedServer(failures int64, body string) *httptest.Server {
	var served atomic.Int64
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
}
