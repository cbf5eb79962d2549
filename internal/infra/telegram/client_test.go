package telegram

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voicebot/internal/infra"
)

func testRetryConfig() infra.RetryConfig {
	return infra.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestFetchFile_FailsFastOnNotFound(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchFile(context.Background(), srv.Client(), testRetryConfig(), srv.URL)
	if err == nil {
		t.Fatal("fetchFile returned nil for 404")
	}
	if calls != 1 {
		t.Errorf("got %d requests, want 1: 404 is not retryable", calls)
	}
}

func TestFetchFile_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("voice bytes"))
	}))
	defer srv.Close()

	data, err := fetchFile(context.Background(), srv.Client(), testRetryConfig(), srv.URL)
	if err != nil {
		t.Fatalf("fetchFile: %v", err)
	}
	if !bytes.Equal(data, []byte("voice bytes")) {
		t.Errorf("fetched %q, want voice bytes", data)
	}
	if calls != 2 {
		t.Errorf("got %d requests, want 2: 503 then success", calls)
	}
}
