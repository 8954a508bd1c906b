package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/model"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.nav.State().ActiveStep == model.StepViz {
		b.WriteString(m.renderViz())
	} else {
		b.WriteString(m.renderJobs())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter select  tab/2 visualizations  1 jobs  r refresh  q quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	st := m.nav.State()
	jobsTab, vizTab := inactiveTabStyle, inactiveTabStyle
	if st.ActiveStep == model.StepJobs {
		jobsTab = activeTabStyle
	} else {
		vizTab = activeTabStyle
	}
	if !st.CanViewVisualizations {
		vizTab = lockedTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		headerAppStyle.Render(branding.DisplayName()),
		jobsTab.Render("1 Jobs"),
		vizTab.Render("2 Visualizations"),
	)
}

func (m Model) renderJobs() string {
	if m.sessionID == "" {
		return mutedStyle.Render("No active session. Start one in chat or run `sessions use <id>`.")
	}
	if m.loading {
		return mutedStyle.Render("Loading jobs...")
	}
	if len(m.list) == 0 {
		return mutedStyle.Render("No jobs in this session yet.")
	}

	selected := m.nav.State().SelectedJobID
	var b strings.Builder
	for i, j := range m.list {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		id := rowStyle.Render(j.ID)
		if j.ID == selected {
			id = selectedStyle.Render(j.ID + " *")
		}
		fmt.Fprintf(&b, "%s%-10s %s  %s\n",
			cursor,
			j.Method,
			jobStatusStyle(string(j.Status)).Render(fmt.Sprintf("%-9s", j.Status)),
			id,
		)
	}
	return b.String()
}

func (m Model) renderViz() string {
	job, ok := m.selectedJob()
	if !ok {
		return mutedStyle.Render("Selected job is no longer listed.")
	}
	if len(m.viz) == 0 {
		return mutedStyle.Render(fmt.Sprintf("No visualizations for %s.", job.Method))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", rowStyle.Render(job.Method), mutedStyle.Render(job.ID))
	lastCategory := ""
	for i, v := range m.viz {
		if v.Category != lastCategory {
			b.WriteString(categoryStyle.Render(m.catalog.CategoryName(v.Category)))
			b.WriteString("\n")
			lastCategory = v.Category
		}
		cursor := "  "
		if i == m.vizCursor {
			cursor = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s %s\n",
			cursor,
			rowStyle.Render(v.Name),
			mutedStyle.Render(v.Component),
			mutedStyle.Render("["+string(v.OutputType)+"]"),
		)
		if v.Description != "" {
			b.WriteString("    " + mutedStyle.Render(v.Description) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrStyle.Render(m.status)
	}
	if !m.nav.State().CanViewVisualizations && strings.HasPrefix(m.status, "Select a job") {
		return hintStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}
