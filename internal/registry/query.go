package registry

import (
	"context"

	"github.com/datamonkey-labs/dmchat/internal/model"
)

// Categories returns the current categories, resolving first if needed.
func (r *Resolver) Categories(ctx context.Context) map[string]model.VisualizationCategory {
	r.ensureResolved(ctx)
	return r.snapshot().Clone().Categories
}

// Methods returns the current methods, resolving first if needed.
func (r *Resolver) Methods(ctx context.Context) map[string]model.MethodCatalogEntry {
	r.ensureResolved(ctx)
	return r.snapshot().Clone().Methods
}

// VisualizationsForMethod returns the method's visualizations in catalog
// order. An unknown method yields an empty slice and a warning.
func (r *Resolver) VisualizationsForMethod(ctx context.Context, methodID string) []model.Visualization {
	r.ensureResolved(ctx)

	m, ok := r.snapshot().Methods[methodID]
	if !ok {
		r.log.Warn(logModule, "no visualizations for unknown method", map[string]interface{}{"method": methodID})
		return []model.Visualization{}
	}
	return m.Clone().Visualizations
}

// MethodExists reports whether methodID is in the current catalog.
func (r *Resolver) MethodExists(methodID string) bool {
	_, ok := r.snapshot().Methods[methodID]
	return ok
}

// VisualizationExists reports whether methodID has a visualization rendered
// by component. It is false for unknown methods.
func (r *Resolver) VisualizationExists(methodID, component string) bool {
	m, ok := r.snapshot().Methods[methodID]
	if !ok {
		return false
	}
	for _, v := range m.Visualizations {
		if v.Component == component {
			return true
		}
	}
	return false
}

// CategoryName returns the display name of a category, or the id itself
// when the category is unknown.
func (r *Resolver) CategoryName(categoryID string) string {
	if c, ok := r.snapshot().Categories[categoryID]; ok && c.Name != "" {
		return c.Name
	}
	return categoryID
}
