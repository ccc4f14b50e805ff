package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/engine"
	"github.com/movaengine/runner/internal/logging"
	"github.com/movaengine/runner/internal/pathutil"
)

// handleRoot reports basic service identity.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"service": "runner",
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRun is the full execution pipeline: shape validation, rate limit,
// argv build, dry-run short-circuit, execution, audit line, response.
// A non-zero child exit is a normal outcome (200 with ok=false), not a
// transport error.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limit exceeded: %d requests per minute", s.limiter.Capacity()))
		return
	}

	argv, err := s.builder.Build(req.CmdID, req.Args)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	// Dry run: report what would execute, spawn nothing.
	if req.DryRun {
		writeJSON(w, http.StatusOK, RunResponse{OK: true, Argv: argv})
		return
	}

	timeout := s.clampTimeout(req.TimeoutSec)
	outcome := s.exec.Run(r.Context(), argv, timeout)

	id := uuid.NewString()
	s.audit.LogExecution(id, req.CmdID, argv, outcome.ExitCode,
		time.Duration(outcome.DurationMs)*time.Millisecond)

	rc := outcome.ExitCode
	writeJSON(w, http.StatusOK, RunResponse{
		OK:         rc == 0,
		ID:         id,
		Argv:       argv,
		ReturnCode: &rc,
		StdoutTail: outcome.StdoutTail,
		StderrTail: outcome.StderrTail,
		DurationMs: outcome.DurationMs,
	})
}

// clampTimeout applies the configured default and ceiling to a requested
// timeout in seconds.
func (s *Server) clampTimeout(sec int) time.Duration {
	if sec <= 0 {
		sec = s.cfg.DefaultTimeoutSec
	}
	if sec > s.cfg.MaxTimeoutSec {
		sec = s.cfg.MaxTimeoutSec
	}
	return time.Duration(sec) * time.Second
}

// handleValidate proxies an envelope file to the engine's validate endpoint.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.proxyEnvelope(w, r, s.engine.Validate)
}

// handleExecute proxies an envelope file to the engine's execute endpoint.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	s.proxyEnvelope(w, r, s.engine.Execute)
}

// engineCall is the shape shared by the engine's envelope operations.
type engineCall func(ctx context.Context, envelope json.RawMessage) (json.RawMessage, error)

// proxyEnvelope reads a sanitized envelope file from under the project root
// and forwards its JSON body to the engine. This is where a path argument's
// existence is finally checked; the sanitizer only checks containment.
func (s *Server) proxyEnvelope(w http.ResponseWriter, r *http.Request, call engineCall) {
	var req EnvelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.File == "" {
		writeError(w, http.StatusBadRequest, "missing required argument: file")
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limit exceeded: %d requests per minute", s.limiter.Capacity()))
		return
	}

	abs, err := pathutil.Resolve(s.root, req.File)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		// Do not echo the resolved absolute path.
		writeError(w, http.StatusBadRequest, fmt.Sprintf("envelope file not readable: %s", req.File))
		return
	}
	if !json.Valid(data) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("envelope file is not valid JSON: %s", req.File))
		return
	}

	result, err := call(r.Context(), data)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProxyResponse{OK: true, Result: json.RawMessage(result)})
}

// handleLogs proxies a run-log fetch, validating the run identifier before
// it can reach a URL path.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	if !allowlist.ValidIdentifier(runID) {
		writeError(w, http.StatusBadRequest, "invalid run_id format")
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limit exceeded: %d requests per minute", s.limiter.Capacity()))
		return
	}

	result, err := s.engine.RunLogs(r.Context(), runID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProxyResponse{OK: true, Result: json.RawMessage(result)})
}

// handleIntrospect proxies the engine's capability description.
func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limit exceeded: %d requests per minute", s.limiter.Capacity()))
		return
	}

	result, err := s.engine.Introspect(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProxyResponse{OK: true, Result: json.RawMessage(result)})
}

// writeEngineError maps a failed engine call to the proxy's own response.
// Remote 4xx statuses pass through with the remote message embedded; remote
// 5xx and transport failures become 502.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var statusErr *engine.StatusError
	if errors.As(err, &statusErr) {
		status := http.StatusBadGateway
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			status = statusErr.StatusCode
		}
		writeError(w, status, statusErr.Error())
		return
	}
	logging.Error().Err(err).Msg("engine call failed")
	writeError(w, http.StatusBadGateway, "workflow engine unreachable")
}
