package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/datamonkey-labs/dmchat/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	jobsResultsOut string
	jobsJSON       bool
)

func init() {
	jobsCmd.PersistentFlags().BoolVar(&jobsJSON, "json", false, "Output in JSON format")
	jobsResultsCmd.Flags().StringVarP(&jobsResultsOut, "out", "o", "", "Write results to a file instead of stdout")
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsResultsCmd)
	jobsCmd.AddCommand(jobsHealthCmd)
	rootCmd.AddCommand(jobsCmd)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect analysis jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list [session-id]",
	Short: "List the jobs of a session (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		} else {
			a.sessions.Load(cmd.Context())
			id, ok := a.sessions.Active()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
				return nil
			}
			sessionID = id
		}

		list, err := a.client.ListJobs(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("listing jobs for session %s: %w", sessionID, err)
		}
		if jobsJSON {
			return printJSON(cmd, list)
		}
		if len(list) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No jobs in session %s.\n", sessionID)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tMETHOD\tSTATUS\tCREATED")
		for _, j := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.ID, j.Method, j.Status, formatTime(j.Created))
		}
		return w.Flush()
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show a job's status on the analysis server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		st, err := a.jobs.Status(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("checking job %s: %w", args[0], err)
		}
		if jobsJSON {
			return printJSON(cmd, st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", st.ID, st.Status)
		if st.ErrorMessage != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", st.ErrorMessage)
		}
		return nil
	},
}

var jobsResultsCmd = &cobra.Command{
	Use:   "results <job-id>",
	Short: "Fetch the results of a completed job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		raw, err := a.jobs.Results(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching results for %s: %w", args[0], err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(raw)
		}
		pretty.WriteByte('\n')

		if jobsResultsOut == "" {
			_, err := cmd.OutOrStdout().Write(pretty.Bytes())
			return err
		}
		if err := os.WriteFile(jobsResultsOut, pretty.Bytes(), userdata.FilePermNormal); err != nil {
			return fmt.Errorf("writing %s: %w", jobsResultsOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", jobsResultsOut)
		return nil
	},
}

var jobsHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		h, err := a.jobs.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking %s: %w", a.settings.DatamonkeyURL, err)
		}
		if jobsJSON {
			return printJSON(cmd, h)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (version %s)\n", a.settings.DatamonkeyURL, h.Status, displayVersion(h.Version))
		return nil
	},
}
