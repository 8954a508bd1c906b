package cli

import (
	"testing"

	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/model"
)

func TestMatchesSearchByQuery(t *testing.T) {
	v := model.Visualization{
		Name:        "Site Table",
		Description: "Per-site dN/dS estimates",
		Component:   "SiteTable",
		Category:    "site",
		OutputType:  model.OutputDOMElement,
	}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"empty query matches all", "", true},
		{"exact name match", "Site Table", true},
		{"partial name match", "site", true},
		{"case insensitive component", "SITETABLE", true},
		{"description match", "dn/ds", true},
		{"no match", "phylogeny", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesSearch(v, tt.query, "", "")
			if got != tt.expected {
				t.Errorf("matchesSearch(query=%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatchesSearchByFilters(t *testing.T) {
	v := model.Visualization{Name: "Tree", Component: "TreeViewer", Category: "tree", OutputType: model.OutputSVG}

	tests := []struct {
		name     string
		category string
		output   string
		expected bool
	}{
		{"no filters", "", "", true},
		{"matching category", "tree", "", true},
		{"category case insensitive", "TREE", "", true},
		{"non-matching category", "site", "", false},
		{"matching output", "", "svg", true},
		{"non-matching output", "", "png", false},
		{"both must match", "tree", "png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesSearch(v, "", tt.category, tt.output)
			if got != tt.expected {
				t.Errorf("matchesSearch(category=%q, output=%q) = %v, want %v", tt.category, tt.output, got, tt.expected)
			}
		})
	}
}

func TestSearchVisualizationsOrdersByMethod(t *testing.T) {
	methods := catalog.DefaultCatalog().Methods

	entries := searchVisualizations(methods, "TileTable", "", "")
	if len(entries) == 0 {
		t.Fatal("expected TileTable hits in the built-in catalog")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Method > entries[i].Method {
			t.Errorf("entries not ordered by method: %s before %s", entries[i-1].Method, entries[i].Method)
		}
	}

	busted := searchVisualizations(map[string]model.MethodCatalogEntry{"BUSTED": methods["BUSTED"]}, "", "", "")
	if len(busted) != 1 || busted[0].Component != "TileTable" {
		t.Errorf("BUSTED search = %+v, want one TileTable", busted)
	}
}
