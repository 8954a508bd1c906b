package cli

import (
	"fmt"
	"os"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` lists chat sessions, checks HyPhy analysis jobs on a Datamonkey
server, and shows which visualizations each analysis method offers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip banners for commands that manage their own state.
		name := cmd.Name()
		if name == "version" || name == "catalog" || name == "update" || name == "init" || name == "browse" {
			return
		}

		// Registry freshness check, no network.
		exists, _ := userdata.RegistryRepoExists()
		if !exists {
			return
		}
		repoRoot, err := userdata.GetRegistryRepoRoot()
		if err != nil {
			return
		}
		switch f := catalog.CheckFreshness(repoRoot); {
		case f.Modified:
			fmt.Fprintf(os.Stderr, "Visualization registry was changed since its last sync. Run '%s catalog update'.\n", branding.CLIName())
		case f.Stale(catalog.DefaultMaxAge):
			fmt.Fprintf(os.Stderr, "Visualization registry is more than 7 days old. Run '%s catalog update'.\n", branding.CLIName())
		}
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	defer closeApp()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
