package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/spf13/cobra"
)

var (
	searchCategoryFilter string
	searchOutputFilter   string
)

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search visualizations across all methods",
	Long: `Search the visualizations offered by every method in the catalog.

The query matches against visualization names, descriptions and components
(case-insensitive substring). Use --category and --output to narrow results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	catalogSearchCmd.Flags().StringVar(&searchCategoryFilter, "category", "", "Filter by category id (e.g., site, branch)")
	catalogSearchCmd.Flags().StringVar(&searchOutputFilter, "output", "", "Filter by output type (dom_element, svg, png, json, html, text)")
	catalogCmd.AddCommand(catalogSearchCmd)
}

// searchEntry is a visualization hit for display.
type searchEntry struct {
	Method      string           `json:"method"`
	Name        string           `json:"name"`
	Component   string           `json:"component"`
	Category    string           `json:"category"`
	OutputType  model.OutputType `json:"outputType"`
	Description string           `json:"description"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	a, err := getApp()
	if err != nil {
		return err
	}
	methods := a.resolver.Methods(cmd.Context())

	entries := searchVisualizations(methods, query, searchCategoryFilter, searchOutputFilter)
	if len(entries) == 0 {
		msg := "No visualizations found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		if searchCategoryFilter != "" {
			msg += fmt.Sprintf(" with --category=%s", searchCategoryFilter)
		}
		if searchOutputFilter != "" {
			msg += fmt.Sprintf(" with --output=%s", searchOutputFilter)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	if catalogJSON {
		return printJSON(cmd, entries)
	}
	return printSearchTable(cmd, entries)
}

// searchVisualizations returns hits ordered by method id, then catalog order.
func searchVisualizations(methods map[string]model.MethodCatalogEntry, query, categoryFilter, outputFilter string) []searchEntry {
	ids := make([]string, 0, len(methods))
	for id := range methods {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var entries []searchEntry
	for _, id := range ids {
		for _, v := range methods[id].Visualizations {
			if !matchesSearch(v, query, categoryFilter, outputFilter) {
				continue
			}
			entries = append(entries, searchEntry{
				Method:      id,
				Name:        v.Name,
				Component:   v.Component,
				Category:    v.Category,
				OutputType:  v.OutputType,
				Description: v.Description,
			})
		}
	}
	return entries
}

// matchesSearch returns true if v matches every non-empty filter.
func matchesSearch(v model.Visualization, query, categoryFilter, outputFilter string) bool {
	if categoryFilter != "" && !strings.EqualFold(v.Category, categoryFilter) {
		return false
	}

	if outputFilter != "" && !strings.EqualFold(string(v.OutputType), outputFilter) {
		return false
	}

	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(v.Name), q) &&
			!strings.Contains(strings.ToLower(v.Description), q) &&
			!strings.Contains(strings.ToLower(v.Component), q) {
			return false
		}
	}

	return true
}

func printSearchTable(cmd *cobra.Command, entries []searchEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tNAME\tCOMPONENT\tOUTPUT\tDESCRIPTION")
	for _, e := range entries {
		desc := e.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Method, e.Name, e.Component, e.OutputType, desc)
	}
	return w.Flush()
}
