//go:build integration

package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	UserdataDir string // DMCHAT_USERDATA, holds preferences.yaml
	RepoDir     string // DMCHAT_REGISTRY_REPO, a synced registry checkout
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all dmchat operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		UserdataDir: t.TempDir(),
		RepoDir:     t.TempDir(),
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DMCHAT_USERDATA", env.UserdataDir)
	t.Setenv("DMCHAT_REGISTRY_REPO", env.RepoDir)

	return env
}

// writeRegistry writes a registry.json export into the synced repo.
func writeRegistry(t *testing.T, repoDir string) string {
	t.Helper()

	doc := map[string]interface{}{
		"version": "2.0.0",
		"VisualizationCategories": map[string]interface{}{
			"summary": map[string]interface{}{"name": "Summary", "description": "Overview"},
			"branch":  map[string]interface{}{"name": "Per-branch", "description": "Branch tests"},
		},
		"HyPhyMethods": map[string]interface{}{
			"BUSTED": map[string]interface{}{
				"name": "BUSTED",
				"visualizations": []interface{}{
					map[string]interface{}{"name": "Summary", "component": "TileTable", "category": "summary", "outputType": "dom_element"},
					map[string]interface{}{"name": "Evidence ratios", "component": "ERPlot", "category": "branch", "outputType": "svg"},
				},
			},
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshaling registry: %v", err)
	}
	path := filepath.Join(repoDir, "registry.json")
	writeFile(t, path, string(data))
	return path
}

// fakeBackends serves the chat backend and the Datamonkey API from one server.
func fakeBackends(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"sessions":[
			{"id":"old","created":"2024-01-01T00:00:00Z","updated":"2024-01-02T00:00:00Z"},
			{"id":"new","created":"2024-02-01T00:00:00Z","updated":"2024-02-02T00:00:00Z"}
		]}`))
	})
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/jobs") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"jobs":[
			{"id":"job-busted","method":"BUSTED","status":"completed","created":1706745600000}
		]}`))
	})
	mux.HandleFunc("/api/v1/jobs/job-busted", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"completed"}`))
	})
	mux.HandleFunc("/api/v1/jobs/job-busted/results", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"test results":{"p-value":0.004}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileContains checks that the file at path contains substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("expected %s to contain %q", path, substr)
	}
}
