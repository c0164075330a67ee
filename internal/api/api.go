// SPDX-License-Identifier: Apache-2.0

// Package api implements the JSON endpoints behind `umdl serve`: a
// read-only status snapshot and a guarded install trigger. The API serves
// a single operator on the same machine; it is not an access-controlled
// service surface.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"umd-launcher/internal/launcher"
	"umd-launcher/internal/logger"

	"github.com/gorilla/mux"
)

// LauncherFactory builds a fresh launcher per request so each call sees
// the current on-disk state.
type LauncherFactory func() (*launcher.Launcher, error)

// installMu serializes installs triggered over HTTP; unlike one-shot CLI
// invocations the server outlives many requests, so overlapping installs
// against the same environment directory must be prevented here.
var installMu sync.Mutex

// RegisterRoutes attaches the API endpoints to the router.
func RegisterRoutes(r *mux.Router, newLauncher LauncherFactory) {
	r.HandleFunc("/api/status", statusHandler(newLauncher)).Methods(http.MethodGet)
	r.HandleFunc("/api/install", installHandler(newLauncher)).Methods(http.MethodPost)
}

func statusHandler(newLauncher LauncherFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		l, err := newLauncher()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, l.Status())
	}
}

// installRequest is the POST /api/install body. An empty body means a
// regular (fingerprint-gated) install.
type installRequest struct {
	Force bool `json:"force"`
}

type installResponse struct {
	OK     bool   `json:"ok"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func installHandler(newLauncher LauncherFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body installRequest
		if req.Body != nil && req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}

		installMu.Lock()
		defer installMu.Unlock()

		l, err := newLauncher()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		// Capture progress output for the response instead of writing to
		// the server's terminal.
		var out bytes.Buffer
		l.Out = &out
		l.ErrOut = &out

		resp := installResponse{OK: true}
		if err := l.Bootstrap(launcher.Options{Force: body.Force}); err != nil {
			resp.OK = false
			resp.Error = err.Error()
		}
		resp.Output = out.String()

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("failed to encode API response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
