// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"umd-launcher/internal/config"
	"umd-launcher/internal/launcher"
	"umd-launcher/internal/runner"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopExec struct{}

func (nopExec) Run(step runner.Step) error {
	if step.Name == "Create Environment" {
		return os.MkdirAll(step.Args[len(step.Args)-1], 0750)
	}
	return nil
}

func (nopExec) Launch(runner.Step) (int, error) { return 0, nil }

func testRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "gui.py"), []byte("pass\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("numpy\n"), 0644))

	cfg := config.Default()
	cfg.Interpreters = []string{"sh"}

	r := mux.NewRouter()
	RegisterRoutes(r, func() (*launcher.Launcher, error) {
		l := launcher.New(root, cfg)
		l.Exec = nopExec{}
		return l, nil
	})
	return r, root
}

func TestStatusEndpoint(t *testing.T) {
	r, root := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var st launcher.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, root, st.Root)
	assert.True(t, st.ManifestExists)
	assert.False(t, st.EnvExists)
	assert.True(t, st.InstallNeeded)
}

func TestInstallEndpoint(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/install", strings.NewReader(`{"force":false}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK     bool   `json:"ok"`
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Contains(t, resp.Output, "Installing dependencies")

	// A second install is a fingerprint-gated no-op.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/install", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Output, "skipping install")
}

func TestInstallEndpointRejectsBadBody(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/install", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInstallEndpointRequiresPost(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/install", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
