package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/config"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
	"github.com/spf13/cobra"
)

var catalogJSON bool

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogJSON, "json", false, "Output in JSON format")
	catalogCmd.AddCommand(catalogUpdateCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogMethodsCmd)
	catalogCmd.AddCommand(catalogVizCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the visualization capability catalog",
	Long: `Inspect the catalog of analysis methods and the visualizations each one offers.

A built-in catalog ships with the binary. An external registry replaces it
wholesale when one is configured (registry_url or registry_file) or has been
synced into ~/.dmchat/registry-repo/ with 'catalog update'.`,
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sync the visualization registry to the latest version",
	Long: `Pull the latest visualization registry from its git repository into
~/.dmchat/registry-repo/. The repository is cloned on first use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		repoRoot, err := userdata.GetRegistryRepoRoot()
		if err != nil {
			return fmt.Errorf("resolving registry path: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updating registry at %s...\n", repoRoot)
		if err := catalog.Update(repoRoot); err != nil {
			return fmt.Errorf("updating registry: %w", err)
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		if !a.resolver.Resolve(cmd.Context()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registry synced, but it could not be loaded; the built-in catalog stays in use.")
			return nil
		}
		c := a.resolver.Catalog()
		fmt.Fprintf(cmd.OutOrStdout(), "Registry updated successfully (%d methods, version %s).\n", len(c.Methods), displayVersion(c.Version))
		return nil
	},
}

type catalogStatus struct {
	Source          string `json:"source"`
	Adopted         bool   `json:"adopted"`
	Version         string `json:"version"`
	BuiltInVersion  string `json:"built_in_version"`
	Methods         int    `json:"methods"`
	Categories      int    `json:"categories"`
	RepoURL         string `json:"repo_url"`
	RepoPath        string `json:"repo_path"`
	RepoSynced      bool   `json:"repo_synced"`
	LastUpdated     string `json:"last_updated,omitempty"`
	Stale           bool   `json:"stale"`
	LocallyModified bool   `json:"locally_modified"`
	OlderThanBuilt  bool   `json:"older_than_built_in"`
	DanglingEntries int    `json:"dangling_categories"`
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which catalog is in use and where it came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a.resolver.Methods(ctx)
		c := a.resolver.Catalog()

		repoRoot, err := userdata.GetRegistryRepoRoot()
		if err != nil {
			return fmt.Errorf("resolving registry path: %w", err)
		}
		synced, _ := userdata.RegistryRepoExists()

		st := catalogStatus{
			Source:          c.Source,
			Adopted:         a.resolver.Adopted(),
			Version:         c.Version,
			BuiltInVersion:  catalog.DefaultsVersion(),
			Methods:         len(c.Methods),
			Categories:      len(c.Categories),
			RepoURL:         catalog.RepoURL(),
			RepoPath:        repoRoot,
			RepoSynced:      synced,
			OlderThanBuilt:  catalog.IsOlder(c.Version),
			DanglingEntries: len(c.DanglingCategories()),
		}
		if synced {
			f := catalog.CheckFreshness(repoRoot)
			if f.Synced() {
				st.LastUpdated = f.SyncedAt.Format(time.RFC3339)
			}
			st.Stale = f.Stale(catalog.DefaultMaxAge)
			st.LocallyModified = f.Modified
		}

		if catalogJSON {
			return printJSON(cmd, st)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source:       %s\n", st.Source)
		fmt.Fprintf(out, "Version:      %s (built-in %s)\n", displayVersion(st.Version), st.BuiltInVersion)
		fmt.Fprintf(out, "Methods:      %d\n", st.Methods)
		fmt.Fprintf(out, "Categories:   %d\n", st.Categories)
		if st.DanglingEntries > 0 {
			fmt.Fprintf(out, "Warnings:     %d visualizations reference unknown categories\n", st.DanglingEntries)
		}
		if st.OlderThanBuilt {
			fmt.Fprintln(out, "Warnings:     registry is older than the built-in catalog")
		}
		fmt.Fprintf(out, "Repo URL:     %s\n", st.RepoURL)
		fmt.Fprintf(out, "Repo path:    %s\n", st.RepoPath)
		switch {
		case !st.RepoSynced:
			fmt.Fprintf(out, "Repo status:  not synced (run '%s catalog update')\n", branding.CLIName())
		case st.LocallyModified:
			fmt.Fprintf(out, "Repo status:  registry.json changed since last sync (run '%s catalog update')\n", branding.CLIName())
		case st.Stale:
			fmt.Fprintf(out, "Repo status:  stale (run '%s catalog update')\n", branding.CLIName())
		default:
			fmt.Fprintln(out, "Repo status:  up to date")
		}
		if st.LastUpdated != "" {
			fmt.Fprintf(out, "Last updated: %s\n", st.LastUpdated)
		}
		return nil
	},
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List visualization categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		cats := a.resolver.Categories(cmd.Context())
		ids := make([]string, 0, len(cats))
		for id := range cats {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		if catalogJSON {
			list := make([]model.VisualizationCategory, 0, len(ids))
			for _, id := range ids {
				list = append(list, cats[id])
			}
			return printJSON(cmd, list)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, id := range ids {
			c := cats[id]
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, c.Name, c.Description)
		}
		return w.Flush()
	},
}

type methodRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Visualizations int    `json:"visualizations"`
}

var catalogMethodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List analysis methods and their visualization counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		methods := a.resolver.Methods(cmd.Context())
		rows := make([]methodRow, 0, len(methods))
		for id, m := range methods {
			rows = append(rows, methodRow{ID: id, Name: m.Name, Visualizations: len(m.Visualizations)})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

		if catalogJSON {
			return printJSON(cmd, rows)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tNAME\tVISUALIZATIONS")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%d\n", r.ID, r.Name, r.Visualizations)
		}
		return w.Flush()
	},
}

var catalogVizCmd = &cobra.Command{
	Use:   "viz <METHOD>",
	Short: "List the visualizations available for a method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		method := args[0]
		vs := a.resolver.VisualizationsForMethod(cmd.Context(), method)

		if catalogJSON {
			return printJSON(cmd, vs)
		}
		if len(vs) == 0 {
			if !a.resolver.MethodExists(method) {
				fmt.Fprintf(cmd.OutOrStdout(), "Unknown method %q. Run '%s catalog methods' to list methods.\n", method, branding.CLIName())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "No visualizations for %s.\n", method)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tCOMPONENT\tCATEGORY\tOUTPUT")
		for _, v := range vs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Name, v.Component, a.resolver.CategoryName(v.Category), v.OutputType)
		}
		return w.Flush()
	},
}

func displayVersion(v string) string {
	if v == "" {
		return "unversioned"
	}
	return v
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
