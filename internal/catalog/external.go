package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/model"
)

// Named exports of the external capability document.
const (
	ExportCategories = "VisualizationCategories"
	ExportMethods    = "HyPhyMethods"
)

// ErrNoExports is returned when a registry document carries neither export.
var ErrNoExports = errors.New("registry document has no " + ExportCategories + " or " + ExportMethods + " export")

const logModule = "catalog"

// ExternalRegistry loads the capability catalog published by the
// visualization library, either over HTTP or from a local file.
type ExternalRegistry struct {
	name       string
	fetch      func(ctx context.Context) ([]byte, error)
	httpClient *http.Client
	log        logger.Logger
}

// Option configures an ExternalRegistry.
type Option func(*ExternalRegistry)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(r *ExternalRegistry) {
		r.httpClient = c
	}
}

// WithLogger sets the logger used for schema diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(r *ExternalRegistry) {
		r.log = l
	}
}

// NewHTTPRegistry creates a source that GETs the registry document from url.
func NewHTTPRegistry(url string, opts ...Option) *ExternalRegistry {
	r := newRegistry(url, opts)
	r.fetch = func(ctx context.Context) ([]byte, error) {
		return r.fetchHTTP(ctx, url)
	}
	return r
}

// NewFileRegistry creates a source that reads the registry document at path.
func NewFileRegistry(path string, opts ...Option) *ExternalRegistry {
	r := newRegistry(path, opts)
	r.fetch = func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading registry file: %w", err)
		}
		return data, nil
	}
	return r
}

func newRegistry(name string, opts []Option) *ExternalRegistry {
	r := &ExternalRegistry{
		name:       name,
		httpClient: http.DefaultClient,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements Source.
func (r *ExternalRegistry) Name() string { return r.name }

// Load fetches and normalizes the registry document. Schema issues are
// logged and do not fail the load.
func (r *ExternalRegistry) Load(ctx context.Context) (*model.Catalog, error) {
	data, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if result, err := Validate(data); err == nil && !result.Valid {
		for _, issue := range result.Issues {
			r.log.Warn(logModule, "registry schema drift", map[string]interface{}{
				"source":  r.name,
				"path":    issue.Path,
				"keyword": issue.Keyword,
				"issue":   issue.Message,
			})
		}
	}

	c, err := Decode(data)
	if err != nil {
		return nil, err
	}
	c.Source = r.name
	return c, nil
}

func (r *ExternalRegistry) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName()+"-registry")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// Decode normalizes a registry document into a Catalog field by field.
// Missing or mistyped fields are left at their zero value.
func Decode(data []byte) (*model.Catalog, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry JSON: %w", err)
	}

	rawCategories, hasCategories := doc[ExportCategories].(map[string]interface{})
	rawMethods, hasMethods := doc[ExportMethods].(map[string]interface{})
	if !hasCategories && !hasMethods {
		return nil, ErrNoExports
	}

	c := &model.Catalog{
		Categories: make(map[string]model.VisualizationCategory, len(rawCategories)),
		Methods:    make(map[string]model.MethodCatalogEntry, len(rawMethods)),
		Version:    stringField(doc, "version"),
	}

	for id, raw := range rawCategories {
		m, _ := raw.(map[string]interface{})
		catID := stringField(m, "id")
		if catID == "" {
			catID = id
		}
		c.Categories[id] = model.VisualizationCategory{
			ID:          catID,
			Name:        stringField(m, "name"),
			Description: stringField(m, "description"),
		}
	}

	for id, raw := range rawMethods {
		m, _ := raw.(map[string]interface{})
		entry := model.MethodCatalogEntry{Name: stringField(m, "name")}
		list, _ := m["visualizations"].([]interface{})
		for _, rv := range list {
			v, _ := rv.(map[string]interface{})
			opts, _ := v["options"].(map[string]interface{})
			entry.Visualizations = append(entry.Visualizations, model.Visualization{
				Name:        stringField(v, "name"),
				Description: stringField(v, "description"),
				Component:   stringField(v, "component"),
				Glyph:       stringField(v, "glyph"),
				Options:     opts,
				Category:    stringField(v, "category"),
				OutputType:  model.OutputType(stringField(v, "outputType")),
			})
		}
		c.Methods[id] = entry
	}

	return c, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
