package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/datamonkey-labs/dmchat/internal/model"
	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultsSourceName identifies catalogs built from the embedded defaults.
const DefaultsSourceName = "built-in"

var (
	defaultsOnce    sync.Once
	defaultsCatalog *model.Catalog
	defaultsErr     error
)

// Source supplies a capability catalog.
type Source interface {
	Name() string
	Load(ctx context.Context) (*model.Catalog, error)
}

// BuiltInDefaults serves the catalog compiled into the binary.
type BuiltInDefaults struct{}

// Defaults returns the built-in defaults source.
func Defaults() BuiltInDefaults { return BuiltInDefaults{} }

// Name implements Source.
func (BuiltInDefaults) Name() string { return DefaultsSourceName }

// Load returns a fresh copy of the embedded catalog.
func (BuiltInDefaults) Load(context.Context) (*model.Catalog, error) {
	c, err := parseDefaults()
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// DefaultCatalog returns a copy of the embedded catalog. It panics if the
// embedded file is broken, which is a build defect.
func DefaultCatalog() *model.Catalog {
	c, err := parseDefaults()
	if err != nil {
		panic(err)
	}
	return c.Clone()
}

// DefaultsVersion returns the version declared by the embedded catalog.
func DefaultsVersion() string {
	c, err := parseDefaults()
	if err != nil {
		return ""
	}
	return c.Version
}

func parseDefaults() (*model.Catalog, error) {
	defaultsOnce.Do(func() {
		var c model.Catalog
		if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
			defaultsErr = fmt.Errorf("parsing built-in catalog: %w", err)
			return
		}
		c.Source = DefaultsSourceName
		defaultsCatalog = &c
	})
	return defaultsCatalog, defaultsErr
}
