package cli

import (
	"fmt"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/config"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
	"github.com/spf13/cobra"
)

var initSkipRegistry bool

func init() {
	initCmd.Flags().BoolVar(&initSkipRegistry, "skip-registry", false, "Do not clone the visualization registry")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize " + branding.DisplayName() + " on this machine",
	Long: `Create the userdata directory (~/.dmchat/userdata/) with an empty
preferences file, then clone the visualization registry unless
--skip-registry is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		out := cmd.OutOrStdout()

		root, err := userdata.GetUserdataRoot()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Initializing userdata at %s\n", root)

		if err := userdata.InitGlobal(out); err != nil {
			return fmt.Errorf("initializing userdata: %w", err)
		}
		fmt.Fprintln(out, "\nUserdata initialized successfully.")

		if initSkipRegistry {
			return nil
		}
		exists, _ := userdata.RegistryRepoExists()
		if exists {
			return nil
		}

		repoRoot, err := userdata.GetRegistryRepoRoot()
		if err != nil {
			fmt.Fprintf(out, "\nWarning: could not determine registry path: %v\n", err)
			fmt.Fprintf(out, "Run '%s catalog update' later to fetch the registry.\n", branding.CLIName())
			return nil
		}

		fmt.Fprintf(out, "\nCloning visualization registry to %s...\n", repoRoot)
		if err := catalog.Clone(repoRoot); err != nil {
			// Non-fatal: the built-in catalog still works.
			fmt.Fprintf(out, "Warning: registry clone failed: %v\n", err)
			fmt.Fprintf(out, "Run '%s catalog update' later to retry.\n", branding.CLIName())
			return nil
		}
		fmt.Fprintln(out, "Registry cloned successfully.")
		return nil
	},
}
