package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/datamonkey-labs/dmchat/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	jobs []model.Job
	err  error
}

func (s stubJobs) ListJobs(context.Context, string) ([]model.Job, error) {
	return s.jobs, s.err
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got, cmd
}

// run applies msg and then feeds back any message its command produces.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := apply(t, m, msg)
	if cmd != nil {
		m, _ = apply(t, m, cmd())
	}
	return m
}

func loaded(t *testing.T) Model {
	t.Helper()
	jobs := stubJobs{jobs: []model.Job{
		{ID: "j1", Method: "BUSTED", Status: model.JobCompleted},
		{ID: "j2", Method: "FEL", Status: model.JobRunning},
	}}
	m := New(context.Background(), jobs, registry.New(nil), "s1")
	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())
	require.Len(t, m.list, 2)
	return m
}

func TestTabBeforeSelectionStaysOnJobs(t *testing.T) {
	m := loaded(t)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.StepJobs, m.Navigation().ActiveStep)
	assert.Contains(t, m.status, "Select a job")

	m = run(t, m, keyMsg("2"))
	assert.Equal(t, model.StepJobs, m.Navigation().ActiveStep)
}

func TestEnterUnlocksVisualizations(t *testing.T) {
	m := loaded(t)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	st := m.Navigation()
	assert.Equal(t, "j1", st.SelectedJobID)
	assert.True(t, st.CanViewVisualizations)
	assert.Equal(t, model.StepJobs, st.ActiveStep)

	require.Len(t, m.viz, 1)
	assert.Equal(t, "TileTable", m.viz[0].Component)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.StepViz, m.Navigation().ActiveStep)
	assert.Contains(t, m.View(), "TileTable")

	m = run(t, m, keyMsg("1"))
	assert.Equal(t, model.StepJobs, m.Navigation().ActiveStep)
	assert.True(t, m.Navigation().CanViewVisualizations)
}

func TestCursorSelectsSecondJob(t *testing.T) {
	m := loaded(t)

	m = run(t, m, keyMsg("j"))
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "j2", m.Navigation().SelectedJobID)
	assert.NotEmpty(t, m.viz)
	assert.Equal(t, "FEL", m.list[m.cursor].Method)
}

func TestStaleVisualizationsIgnored(t *testing.T) {
	m := loaded(t)
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = apply(t, m, vizLoadedMsg{jobID: "other", viz: []model.Visualization{{Component: "X"}}})
	assert.Empty(t, m.viz)
}

func TestEnterWithNoJobsDoesNothing(t *testing.T) {
	m := New(context.Background(), stubJobs{}, registry.New(nil), "")
	assert.Nil(t, m.Init())

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Navigation().CanViewVisualizations)
	assert.Contains(t, m.View(), "No active session")
}

func TestJobLoadFailureShowsError(t *testing.T) {
	m := New(context.Background(), stubJobs{err: errors.New("backend down")}, registry.New(nil), "s1")
	m, _ = apply(t, m, m.Init()())

	assert.True(t, m.statusErr)
	assert.Contains(t, m.View(), "backend down")
}

func TestQuit(t *testing.T) {
	m := loaded(t)
	_, cmd := apply(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
