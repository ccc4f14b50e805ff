//go:build e2e

// Package e2e contains end-to-end tests that exercise the gateway over a real
// TCP listener, from server start through HTTP round-trips to shutdown. Unit
// tests cover the handlers in isolation; these verify the assembled service.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/audit"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/engine"
	"github.com/movaengine/runner/internal/gateway"
	"github.com/movaengine/runner/internal/pathutil"
)

const e2eAllowlist = `
commands:
  echo_test:
    - echo
    - msg: {type: string, required: true}
  validate_env:
    - mova
    - validate
    - file: {type: path, required: true}
`

// testService is a gateway running on a real ephemeral port plus the
// fixtures it was assembled from.
type testService struct {
	BaseURL  string
	Root     string
	AuditBuf *bytes.Buffer
}

// startGateway assembles and starts a gateway on 127.0.0.1:0 with a temp
// project root and a stub workflow engine, and registers shutdown cleanup.
func startGateway(t *testing.T, rateLimit int) *testService {
	t.Helper()

	root, err := pathutil.CanonicalRoot(t.TempDir())
	if err != nil {
		t.Fatalf("CanonicalRoot: %v", err)
	}

	allowPath := filepath.Join(root, "runner.allowlist.yaml")
	if err := os.WriteFile(allowPath, []byte(e2eAllowlist), 0640); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}
	store, err := allowlist.Load(allowPath)
	if err != nil {
		t.Fatalf("load allowlist: %v", err)
	}

	engineSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"engine":"ok","path":"` + r.URL.Path + `"}`))
	}))
	t.Cleanup(engineSrv.Close)

	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.RateLimit = rateLimit
	cfg.DefaultTimeoutSec = 5
	cfg.MaxTimeoutSec = 10

	var auditBuf bytes.Buffer
	srv := gateway.New(cfg, root, store, engine.NewClient(engineSrv.URL, cfg.EngineTimeout()), audit.NewLogger(&auditBuf))

	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("start gateway: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	return &testService{
		BaseURL:  "http://" + srv.ListenAddr(),
		Root:     root,
		AuditBuf: &auditBuf,
	}
}

// postJSON posts a JSON body and returns the status code and response body.
func postJSON(t *testing.T, url string, body any) (int, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, out
}

// getJSON issues a GET and returns the status code and response body.
func getJSON(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, out
}
