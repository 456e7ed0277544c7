package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient() *Client {
	return NewClient(WithRateLimit(1000, 1000), WithTimeout(5*time.Second))
}

func TestErrHTTPError(t *testing.T) {
	e := &ErrHTTP{StatusCode: 404, Status: "404 Not Found", Body: "not found"}
	got := e.Error()
	if !strings.Contains(got, "404") || !strings.Contains(got, "not found") {
		t.Fatalf("unexpected error string: %s", got)
	}
	if errors.Is(e, ErrRateLimited) {
		t.Fatal("404 should not unwrap to ErrRateLimited")
	}
}

func TestErrHTTPRateLimited(t *testing.T) {
	e := &ErrHTTP{StatusCode: http.StatusTooManyRequests, Status: "429 Too Many Requests"}
	if !errors.Is(e, ErrRateLimited) {
		t.Fatal("429 should unwrap to ErrRateLimited")
	}
}

func TestClientDoGetHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(1000, 1000), WithUserAgent("stockpicker-test"))
	body, err := c.doGet(context.Background(), srv.URL, map[string]string{"Accept": "text/plain"})
	if err != nil {
		t.Fatalf("doGet: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)

	if string(data) != "ok" {
		t.Errorf("body = %q, want ok", data)
	}
	if gotUA != "stockpicker-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "text/plain" {
		t.Errorf("Accept = %q, want override", gotAccept)
	}
}

func TestClientDefaultUserAgent(t *testing.T) {
	c := NewClient(WithUserAgent(""))
	if c.userAgent != DefaultUserAgent {
		t.Fatalf("userAgent = %q, want %q", c.userAgent, DefaultUserAgent)
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient().doGet(context.Background(), srv.URL, nil)
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *ErrHTTP, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected ErrRateLimited")
	}
}

func TestClientPostJSON(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	body, err := newTestClient().doPostJSON(context.Background(), srv.URL, map[string]int{"size": 3}, nil)
	if err != nil {
		t.Fatalf("doPostJSON: %v", err)
	}
	body.Close()

	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody != `{"size":3}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestClientContextCancelled(t *testing.T) {
	c := NewClient(WithRateLimit(0.001, 1))
	// Drain the single token so the next call has to wait.
	_ = c.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.doGet(ctx, "http://127.0.0.1:1", nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
