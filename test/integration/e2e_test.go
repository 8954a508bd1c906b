//go:build integration

package integration_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/jobs"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/datamonkey-labs/dmchat/internal/navigator"
	"github.com/datamonkey-labs/dmchat/internal/registry"
	"github.com/datamonkey-labs/dmchat/internal/session"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
)

// TestFullFlowSessionJobVisualization tests the complete flow:
// init userdata -> load sessions -> list jobs -> select job -> unlock viz
// -> query the synced registry -> fetch results.
func TestFullFlowSessionJobVisualization(t *testing.T) {
	env := setupTestEnv(t)
	writeRegistry(t, env.RepoDir)
	srv := fakeBackends(t)
	ctx := context.Background()

	// Step 1: Initialize userdata.
	if err := userdata.InitGlobal(io.Discard); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}

	// Step 2: Load sessions; the most recent becomes active and is persisted.
	prefs, err := userdata.NewActiveSessionStore()
	if err != nil {
		t.Fatalf("NewActiveSessionStore: %v", err)
	}
	client := session.NewClient(srv.URL)
	store := session.NewStore(client, prefs)
	if got := store.Load(ctx); len(got) != 2 {
		t.Fatalf("Load returned %d sessions, want 2", len(got))
	}
	active, ok := store.Active()
	if !ok || active != "new" {
		t.Fatalf("active session = %q, want %q", active, "new")
	}
	assertFileContains(t, filepath.Join(env.UserdataDir, userdata.PreferencesFile), "active_session: new")

	// Step 3: List the active session's jobs.
	list, err := client.ListJobs(ctx, active)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(list) != 1 || list[0].Method != "BUSTED" {
		t.Fatalf("ListJobs = %+v, want one BUSTED job", list)
	}

	// Step 4: Gate the visualization step on selection.
	nav := navigator.New()
	if nav.NavigateTo(model.StepViz) {
		t.Fatal("viz step should be locked before a job is selected")
	}
	nav.SelectJob(list[0].ID)
	if !nav.NavigateTo(model.StepViz) {
		t.Fatal("viz step should unlock after selecting a job")
	}

	// Step 5: The synced registry replaces the built-in catalog.
	external := catalog.NewFileRegistry(catalog.RegistryPath(env.RepoDir))
	resolver := registry.New(external)
	vs := resolver.VisualizationsForMethod(ctx, list[0].Method)
	if len(vs) != 2 {
		t.Fatalf("BUSTED visualizations = %d, want 2 from the synced registry", len(vs))
	}
	if !resolver.Adopted() {
		t.Error("expected the external registry to be adopted")
	}
	if resolver.MethodExists("FEL") {
		t.Error("external registry should replace the defaults, not merge with them")
	}

	// Step 6: Fetch results for the completed job.
	jc, err := jobs.NewClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("jobs.NewClient: %v", err)
	}
	raw, err := jc.Results(ctx, nav.State().SelectedJobID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected a result document")
	}

	// Step 7: A restart resumes the same session.
	restarted := session.NewStore(client, userdata.NewActiveSessionStoreAt(filepath.Join(env.UserdataDir, userdata.PreferencesFile)))
	if err := restarted.Select("old"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	again := session.NewStore(client, prefs)
	again.Load(ctx)
	if id, _ := again.Active(); id != "old" {
		t.Errorf("after restart active = %q, want %q", id, "old")
	}
}

// TestFlowWithoutRegistryUsesDefaults checks that a missing registry file
// leaves the built-in catalog in place.
func TestFlowWithoutRegistryUsesDefaults(t *testing.T) {
	env := setupTestEnv(t)

	resolver := registry.New(catalog.NewFileRegistry(catalog.RegistryPath(env.RepoDir)))
	if resolver.Resolve(context.Background()) {
		t.Fatal("Resolve should fail without a registry file")
	}
	vs := resolver.VisualizationsForMethod(context.Background(), "BUSTED")
	if len(vs) != 1 || vs[0].Component != "TileTable" {
		t.Errorf("BUSTED visualizations = %+v, want the built-in TileTable", vs)
	}
}
