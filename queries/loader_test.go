package queries

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
)

func TestGetKnownQuery(t *testing.T) {
	src, err := Get("java", "functions")
	require.NoError(t, err)
	assert.Contains(t, src, "method_declaration")
}

func TestAliasesResolveToSameEntry(t *testing.T) {
	plural, err := Get("java", "functions")
	require.NoError(t, err)
	singular, err := Get("java", "function")
	require.NoError(t, err)
	assert.Equal(t, plural, singular)

	methods, err := Get("java", "methods")
	require.NoError(t, err)
	method, err := Get("java", "method")
	require.NoError(t, err)
	assert.Equal(t, methods, method)
}

func TestMissingQuery(t *testing.T) {
	_, err := Get("java", "nonexistent")
	var notFound *core.QueryNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "java", notFound.Language)
	assert.Equal(t, "nonexistent", notFound.Key)
}

func TestMissingLanguage(t *testing.T) {
	_, err := Get("fortran", "functions")
	var notFound *core.QueryNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestListPerLanguage(t *testing.T) {
	keys := List("java")
	assert.Contains(t, keys, "functions")
	assert.Contains(t, keys, "classes")
	assert.Contains(t, keys, "imports")
	assert.Contains(t, keys, "packages")
	assert.Contains(t, keys, "annotations")
	assert.Contains(t, keys, "fields")
	assert.Contains(t, keys, "methods")

	assert.Empty(t, List("fortran"))
}

func TestDescriptions(t *testing.T) {
	desc, err := Describe("java", "functions")
	require.NoError(t, err)
	assert.NotEmpty(t, desc)

	_, err = Describe("java", "nope")
	assert.Error(t, err)
}

func TestSQLErrorQueryExists(t *testing.T) {
	src, err := Get("sql", "errors")
	require.NoError(t, err)
	assert.Contains(t, src, "ERROR")
}

func TestLanguagesCoverRoster(t *testing.T) {
	langs := Languages()
	for _, expected := range []string{"java", "python", "javascript", "typescript", "markdown", "html", "css", "sql"} {
		assert.Contains(t, langs, expected)
	}
}
