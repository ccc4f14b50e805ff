package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateForwardsEnvelope(t *testing.T) {
	var gotBody string
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/validate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	result, err := c.Validate(context.Background(), json.RawMessage(`{"intent":"demo"}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if gotBody != `{"intent":"demo"}` {
		t.Errorf("forwarded body: got %q", gotBody)
	}
	if gotType != "application/json" {
		t.Errorf("content type: got %q", gotType)
	}
	var parsed struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil || !parsed.Valid {
		t.Errorf("result: got %s (err %v)", result, err)
	}
}

func TestRunLogsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/runs/run_42/logs" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"logs":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.RunLogs(context.Background(), "run_42"); err != nil {
		t.Fatalf("RunLogs: %v", err)
	}
}

func TestNonOKBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad envelope"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Execute(context.Background(), json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error type: got %T", err)
	}
	if statusErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d", statusErr.StatusCode)
	}
	if statusErr.Op != "execute" {
		t.Errorf("op: got %q", statusErr.Op)
	}
	if !strings.Contains(statusErr.Body, "bad envelope") {
		t.Errorf("body: got %q, want remote message preserved", statusErr.Body)
	}
}

func TestUnreachableEngine(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Health(context.Background()); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestHealthOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
