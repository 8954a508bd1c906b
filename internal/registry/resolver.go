package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"golang.org/x/sync/singleflight"
)

const (
	logModule  = "registry"
	resolveKey = "resolve"
)

// Resolver owns the capability catalog. It starts from the built-in
// defaults and replaces them wholesale with the external registry the first
// time the catalog is needed. Queries never fail: unknown ids yield empty
// results.
type Resolver struct {
	external catalog.Source
	defaults catalog.Source
	log      logger.Logger

	group singleflight.Group

	mu        sync.RWMutex
	current   *model.Catalog
	attempted bool
	adopted   bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution outcomes and lookup misses.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// WithDefaults replaces the built-in defaults source (useful for testing).
func WithDefaults(s catalog.Source) Option {
	return func(r *Resolver) {
		r.defaults = s
	}
}

// New creates a Resolver. external may be nil, in which case the defaults
// stay in effect and Resolve always reports false.
func New(external catalog.Source, opts ...Option) *Resolver {
	r := &Resolver{
		external: external,
		defaults: catalog.Defaults(),
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	c, err := r.defaults.Load(context.Background())
	if err != nil || c == nil {
		r.log.Error(logModule, "loading default catalog failed", map[string]interface{}{"error": err})
		c = &model.Catalog{
			Categories: map[string]model.VisualizationCategory{},
			Methods:    map[string]model.MethodCatalogEntry{},
		}
	}
	r.current = c
	return r
}

// Resolve attempts to adopt the external catalog and reports whether it
// was adopted. Concurrent calls share one attempt. After an attempt
// completes its outcome stands until Resolve is called again; a failed
// attempt leaves the previous catalog in effect.
//
// The attempt is detached from ctx cancellation since other callers may be
// waiting on it; timeouts belong to the source's transport.
func (r *Resolver) Resolve(ctx context.Context) bool {
	v, _, _ := r.group.Do(resolveKey, func() (interface{}, error) {
		return r.attempt(context.WithoutCancel(ctx)), nil
	})
	return v.(bool)
}

// ensureResolved triggers the first attempt, or joins the one in flight.
func (r *Resolver) ensureResolved(ctx context.Context) {
	if r.Attempted() {
		return
	}
	r.group.Do(resolveKey, func() (interface{}, error) {
		r.mu.RLock()
		done := r.attempted
		r.mu.RUnlock()
		if done {
			return false, nil
		}
		return r.attempt(context.WithoutCancel(ctx)), nil
	})
}

func (r *Resolver) attempt(ctx context.Context) (adopted bool) {
	defer func() {
		r.mu.Lock()
		r.attempted = true
		if adopted {
			r.adopted = true
		}
		r.mu.Unlock()
	}()

	if r.external == nil {
		r.log.Info(logModule, "no external capability source configured, using built-in catalog", nil)
		return false
	}

	c, err := r.load(ctx)
	if err != nil {
		r.log.Error(logModule, "loading external capability registry failed, keeping current catalog", map[string]interface{}{
			"source": r.external.Name(),
			"error":  err,
		})
		return false
	}

	r.diagnose(c)

	r.mu.Lock()
	r.current = c
	r.mu.Unlock()

	r.log.Info(logModule, "adopted external capability registry", map[string]interface{}{
		"source":     r.external.Name(),
		"version":    c.Version,
		"methods":    len(c.Methods),
		"categories": len(c.Categories),
	})
	return true
}

// load calls the external source, converting a panic into an error.
func (r *Resolver) load(ctx context.Context) (c *model.Catalog, err error) {
	defer func() {
		if p := recover(); p != nil {
			c, err = nil, fmt.Errorf("capability source panicked: %v", p)
		}
	}()
	c, err = r.external.Load(ctx)
	if err == nil && c == nil {
		err = fmt.Errorf("capability source returned no catalog")
	}
	if err != nil {
		return nil, err
	}
	if c.Categories == nil {
		c.Categories = map[string]model.VisualizationCategory{}
	}
	if c.Methods == nil {
		c.Methods = map[string]model.MethodCatalogEntry{}
	}
	return c, nil
}

// diagnose logs consistency problems in an adopted catalog. None of them
// reject the load.
func (r *Resolver) diagnose(c *model.Catalog) {
	for _, d := range c.DanglingCategories() {
		r.log.Warn(logModule, "visualization references unknown category", map[string]interface{}{
			"method":        d.Method,
			"visualization": d.Visualization,
			"category":      d.Category,
		})
	}
	if len(c.Methods) == 0 {
		r.log.Warn(logModule, "external capability registry declares no methods", map[string]interface{}{
			"source": c.Source,
		})
	}
	if catalog.IsOlder(c.Version) {
		r.log.Warn(logModule, "external capability registry is older than the built-in catalog", map[string]interface{}{
			"version":  c.Version,
			"built_in": catalog.DefaultsVersion(),
		})
	}
}

// Attempted reports whether a resolution attempt has completed.
func (r *Resolver) Attempted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attempted
}

// Adopted reports whether the current catalog came from the external source.
func (r *Resolver) Adopted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adopted
}

// Catalog returns a copy of the current catalog without triggering resolution.
func (r *Resolver) Catalog() *model.Catalog {
	return r.snapshot().Clone()
}

func (r *Resolver) snapshot() *model.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
