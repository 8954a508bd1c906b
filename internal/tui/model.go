// Package tui is the interactive two-step browser: pick a job from the active
// session, then inspect the visualizations its method offers.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/datamonkey-labs/dmchat/internal/navigator"
)

// JobLister lists the jobs of a session.
type JobLister interface {
	ListJobs(ctx context.Context, sessionID string) ([]model.Job, error)
}

// Catalog answers visualization queries for a method.
type Catalog interface {
	VisualizationsForMethod(ctx context.Context, methodID string) []model.Visualization
	CategoryName(categoryID string) string
}

type jobsLoadedMsg struct {
	jobs []model.Job
	err  error
}

type vizLoadedMsg struct {
	jobID string
	viz   []model.Visualization
}

// Model is the bubbletea model for the step browser.
type Model struct {
	ctx       context.Context
	jobs      JobLister
	catalog   Catalog
	sessionID string
	nav       *navigator.Navigator

	list      []model.Job
	cursor    int
	viz       []model.Visualization
	vizCursor int
	loading   bool

	status    string
	statusErr bool
	width     int
	height    int
}

// New builds a browser for sessionID. An empty sessionID shows an empty
// job list.
func New(ctx context.Context, jobs JobLister, catalog Catalog, sessionID string) Model {
	return Model{
		ctx:       ctx,
		jobs:      jobs,
		catalog:   catalog,
		sessionID: sessionID,
		nav:       navigator.New(),
		loading:   sessionID != "",
	}
}

// Navigation exposes the current step state.
func (m Model) Navigation() model.NavigationState {
	return m.nav.State()
}

func (m Model) Init() tea.Cmd {
	if m.sessionID == "" {
		return nil
	}
	return loadJobsCmd(m.ctx, m.jobs, m.sessionID)
}

func loadJobsCmd(ctx context.Context, jobs JobLister, sessionID string) tea.Cmd {
	return func() tea.Msg {
		list, err := jobs.ListJobs(ctx, sessionID)
		return jobsLoadedMsg{jobs: list, err: err}
	}
}

func loadVizCmd(ctx context.Context, catalog Catalog, job model.Job) tea.Cmd {
	return func() tea.Msg {
		return vizLoadedMsg{jobID: job.ID, viz: catalog.VisualizationsForMethod(ctx, job.Method)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case jobsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("Loading jobs failed: %v", msg.err))
			return m, nil
		}
		m.list = msg.jobs
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}
		m.status = fmt.Sprintf("%d jobs", len(m.list))
		m.statusErr = false
		return m, nil
	case vizLoadedMsg:
		if msg.jobID != m.nav.State().SelectedJobID {
			return m, nil
		}
		m.viz = msg.viz
		m.vizCursor = 0
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "2":
		if !m.nav.NavigateTo(model.StepViz) {
			m.status = "Select a job with enter to unlock visualizations"
			m.statusErr = false
			return m, nil
		}
		m.status = ""
		return m, nil
	case "shift+tab", "1":
		m.nav.NavigateTo(model.StepJobs)
		m.status = ""
		return m, nil
	case "r":
		if m.sessionID == "" {
			return m, nil
		}
		m.loading = true
		return m, loadJobsCmd(m.ctx, m.jobs, m.sessionID)
	}

	if m.nav.State().ActiveStep == model.StepViz {
		return m.updateVizPane(msg)
	}
	return m.updateJobsPane(msg)
}

func (m Model) updateJobsPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.list) == 0 {
			return m, nil
		}
		job := m.list[m.cursor]
		m.nav.SelectJob(job.ID)
		m.viz = nil
		m.status = fmt.Sprintf("Selected %s (%s)", job.ID, job.Method)
		m.statusErr = false
		return m, loadVizCmd(m.ctx, m.catalog, job)
	}
	return m, nil
}

func (m Model) updateVizPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.vizCursor > 0 {
			m.vizCursor--
		}
	case "down", "j":
		if m.vizCursor < len(m.viz)-1 {
			m.vizCursor++
		}
	}
	return m, nil
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m Model) selectedJob() (model.Job, bool) {
	id := m.nav.State().SelectedJobID
	for _, j := range m.list {
		if j.ID == id {
			return j, true
		}
	}
	return model.Job{}, false
}
