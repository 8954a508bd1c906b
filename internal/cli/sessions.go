package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/spf13/cobra"
)

var sessionsJSON bool

func init() {
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "Output in JSON format")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsCurrentCmd)
	sessionsCmd.AddCommand(sessionsUseCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and switch chat sessions",
	Long: `List the chat backend's sessions and choose which one is active.

The active session is remembered in ~/.dmchat/userdata/preferences.yaml. When
it is no longer listed, the most recently updated session becomes active.`,
}

type sessionRow struct {
	model.Session
	Active bool `json:"active"`
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		sessions := a.sessions.Load(cmd.Context())
		active, _ := a.sessions.Active()

		rows := make([]sessionRow, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, sessionRow{Session: s, Active: s.ID == active})
		}

		if sessionsJSON {
			return printJSON(cmd, rows)
		}
		if len(rows) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No sessions found at %s.\n", a.settings.APIURL)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, " \tID\tUPDATED\tCREATED")
		for _, r := range rows {
			marker := " "
			if r.Active {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, r.ID, formatTime(r.Updated), formatTime(r.Created))
		}
		return w.Flush()
	},
}

var sessionsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		a.sessions.Load(cmd.Context())
		id, ok := a.sessions.Active()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if err := a.sessions.Select(args[0]); err != nil {
			return fmt.Errorf("saving active session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active session: %s\n", args[0])
		return nil
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Clear the active session so the next message starts a new one",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if err := a.sessions.StartNew(); err != nil {
			return fmt.Errorf("clearing active session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared active session. Run '%s sessions list' to pick one again.\n", branding.CLIName())
		return nil
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
