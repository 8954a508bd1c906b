package model

import "sort"

// OutputType is the representation kind a visualization renders to.
type OutputType string

const (
	OutputDOMElement OutputType = "dom_element"
	OutputSVG        OutputType = "svg"
	OutputPNG        OutputType = "png"
	OutputJSON       OutputType = "json"
	OutputHTML       OutputType = "html"
	OutputText       OutputType = "text"
)

// Valid reports whether t is one of the known output types. Values outside
// the set are kept as-is when they come from an external registry.
func (t OutputType) Valid() bool {
	switch t {
	case OutputDOMElement, OutputSVG, OutputPNG, OutputJSON, OutputHTML, OutputText:
		return true
	default:
		return false
	}
}

// VisualizationCategory groups visualizations (e.g. "summary", "site").
type VisualizationCategory struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Visualization is a renderable view of a method's results.
type Visualization struct {
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Component   string                 `json:"component" yaml:"component"`
	Glyph       string                 `json:"glyph" yaml:"glyph"`
	Options     map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
	Category    string                 `json:"category" yaml:"category"`
	OutputType  OutputType             `json:"outputType" yaml:"output_type"`
}

// MethodCatalogEntry lists the visualizations available for one method.
type MethodCatalogEntry struct {
	Name           string          `json:"name" yaml:"name"`
	Visualizations []Visualization `json:"visualizations" yaml:"visualizations"`
}

// Catalog is the capability catalog: categories and methods keyed by id.
// A published Catalog is never mutated; replacements swap the whole value.
type Catalog struct {
	Categories map[string]VisualizationCategory `json:"categories" yaml:"categories"`
	Methods    map[string]MethodCatalogEntry    `json:"methods" yaml:"methods"`
	// Version is the declared catalog version, if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Source names where the catalog came from.
	Source string `json:"source,omitempty" yaml:"-"`
}

// DanglingReference is a visualization whose category is not in Categories.
type DanglingReference struct {
	Method        string
	Visualization string
	Category      string
}

// DanglingCategories returns every visualization that references an unknown
// category, ordered by method id.
func (c *Catalog) DanglingCategories() []DanglingReference {
	if c == nil {
		return nil
	}
	var out []DanglingReference
	for _, id := range c.MethodIDs() {
		for _, v := range c.Methods[id].Visualizations {
			if _, ok := c.Categories[v.Category]; !ok {
				out = append(out, DanglingReference{Method: id, Visualization: v.Name, Category: v.Category})
			}
		}
	}
	return out
}

// MethodIDs returns the method ids in sorted order.
func (c *Catalog) MethodIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Methods))
	for id := range c.Methods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CategoryIDs returns the category ids in sorted order.
func (c *Catalog) CategoryIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Categories))
	for id := range c.Categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := &Catalog{
		Categories: make(map[string]VisualizationCategory, len(c.Categories)),
		Methods:    make(map[string]MethodCatalogEntry, len(c.Methods)),
		Version:    c.Version,
		Source:     c.Source,
	}
	for id, cat := range c.Categories {
		out.Categories[id] = cat
	}
	for id, m := range c.Methods {
		out.Methods[id] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry.
func (m MethodCatalogEntry) Clone() MethodCatalogEntry {
	vs := make([]Visualization, len(m.Visualizations))
	for i, v := range m.Visualizations {
		vs[i] = v.Clone()
	}
	return MethodCatalogEntry{Name: m.Name, Visualizations: vs}
}

// Clone returns a copy of v whose Options share nothing with the original.
func (v Visualization) Clone() Visualization {
	if v.Options != nil {
		v.Options = cloneValue(v.Options).(map[string]interface{})
	}
	return v
}

// cloneValue copies the map and slice shapes produced by JSON and YAML decoding.
func cloneValue(in interface{}) interface{} {
	switch t := in.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = cloneValue(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return in
	}
}
