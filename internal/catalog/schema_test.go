package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedRegistry(t *testing.T) {
	result, err := Validate([]byte(registryDoc))
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)
}

func TestValidateReportsIssues(t *testing.T) {
	doc := `{"VisualizationCategories": {"summary": {"id": "summary"}},
	         "HyPhyMethods": {"FEL": {"name": "FEL", "visualizations": [{"name": "Sites", "component": "SiteTable", "category": "site", "outputType": "webgl"}]}}}`

	result, err := Validate([]byte(doc))
	require.NoError(t, err)
	require.False(t, result.Valid)

	keywords := map[string]bool{}
	paths := map[string]bool{}
	for _, issue := range result.Issues {
		keywords[issue.Keyword] = true
		paths[issue.Path] = true
		assert.NotEmpty(t, issue.Message)
	}
	assert.True(t, keywords["required"], "issues: %+v", result.Issues)
	assert.True(t, keywords["enum"], "issues: %+v", result.Issues)
	assert.True(t, paths["/VisualizationCategories/summary"], "issues: %+v", result.Issues)
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	_, err := Validate([]byte(`{"HyPhyMethods": `))
	assert.Error(t, err)
}

func TestDeduplicateIssues(t *testing.T) {
	in := []ValidationIssue{
		{Path: "/a", Keyword: "required", Message: "m"},
		{Path: "/a", Keyword: "required", Message: "m"},
		{Path: "/b", Keyword: "required", Message: "m"},
	}
	assert.Len(t, deduplicateIssues(in), 2)
}
