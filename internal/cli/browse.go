package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/datamonkey-labs/dmchat/internal/tui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the active session's jobs and their visualizations",
	Long: `Open an interactive browser with two steps: Jobs and Visualizations.

Select a job with enter to unlock the Visualizations step, then switch with
tab (or 2) and back with shift+tab (or 1).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a.sessions.Load(ctx)
		active, _ := a.sessions.Active()

		m := tui.New(ctx, a.client, a.resolver, active)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running browser: %w", err)
		}
		return nil
	},
}
