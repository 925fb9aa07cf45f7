package gasfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	t.Run("converts feed units to gwei", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fast": 420, "average": 300, "block_time": 13.4}`))
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		price, err := c.Fetch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != 42 {
			t.Errorf("expected 42 gwei, got %v", price)
		}
	})

	t.Run("sends api key as query param", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.URL.Query().Get("api-key")
			w.Write([]byte(`{"fast": 100}`))
		}))
		defer server.Close()

		c := New(server.URL, "secret", "fast", time.Second)
		if _, err := c.Fetch(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotKey != "secret" {
			t.Errorf("expected api-key query param %q, got %q", "secret", gotKey)
		}
	})

	t.Run("missing level", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"average": 300}`))
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		_, err := c.Fetch(context.Background())
		if !errors.Is(err, ErrLevelMissing) {
			t.Errorf("expected ErrLevelMissing, got %v", err)
		}
	})

	t.Run("non-numeric level", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fast": "quick"}`))
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		_, err := c.Fetch(context.Background())
		if !errors.Is(err, ErrBadPrice) {
			t.Errorf("expected ErrBadPrice, got %v", err)
		}
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fast": 0}`))
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		_, err := c.Fetch(context.Background())
		if !errors.Is(err, ErrBadPrice) {
			t.Errorf("expected ErrBadPrice, got %v", err)
		}
	})

	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		if _, err := c.Fetch(context.Background()); err == nil {
			t.Error("expected error on 502 response")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fast":`))
		}))
		defer server.Close()

		c := New(server.URL, "", "fast", time.Second)
		if _, err := c.Fetch(context.Background()); err == nil {
			t.Error("expected error on malformed JSON")
		}
	})
}
