package cli

import (
	"fmt"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: fmt.Sprintf(`Read and write %s configuration stored at ~/%s/config.yaml.

Keys: %s, %s, %s, %s, %s, %s, %s, %s.
Every key can be overridden with a %s_<KEY> environment variable.`,
		branding.DisplayName(), branding.HomeDir(),
		config.KeyAPIURL, config.KeyDatamonkeyURL, config.KeyRegistryURL, config.KeyRegistryFile,
		config.KeyCatalogRepo, config.KeyHTTPTimeout, config.KeyLogFile, config.KeyVerbose,
		branding.EnvPrefix()),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
