package query

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
)

const javaFixture = `package com.example;

public class UserService {

    public UserService() {
    }

    public User findById(long id) {
        return null;
    }

    public User createUser(String name) {
        return null;
    }

    boolean validateUser(User user) {
        return true;
    }
}
`

const jsFixture = "function regular(){} const arrow=()=>{}; class C{ m(){} }\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteNamedQuery(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "java", Key: "methods",
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, "method", rec.CaptureName)
		assert.Equal(t, "method_declaration", rec.NodeType)
		assert.GreaterOrEqual(t, rec.StartLine, 1)
		assert.GreaterOrEqual(t, rec.EndLine, rec.StartLine)
		assert.NotEmpty(t, rec.Content)
	}
}

func TestExecuteFunctionsIncludesConstructor(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "java", Key: "functions",
	})
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestJavaScriptFunctionsInSourceOrder(t *testing.T) {
	path := writeFixture(t, "mixed.js", jsFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "javascript", Key: "functions",
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	allowed := map[string]bool{
		"function_declaration": true,
		"arrow_function":       true,
		"method_definition":    true,
	}
	for _, rec := range records {
		assert.True(t, allowed[rec.NodeType], "unexpected node type %s", rec.NodeType)
	}
	assert.Equal(t, "function_declaration", records[0].NodeType)
}

func TestFilterSemantics(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "java", Key: "methods", Filter: "name=~create.*",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Content, "createUser")
}

func TestAdHocQueryString(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "java", QueryString: "(class_declaration) @cls",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cls", records[0].CaptureName)
	assert.Equal(t, "class_declaration", records[0].NodeType)
}

func TestExactlyOneOfKeyAndString(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	_, err := svc.Execute(context.Background(), Request{Path: path, Language: "java"})
	assert.True(t, errors.Is(err, core.ErrInvalidQueryRequest))

	_, err = svc.Execute(context.Background(), Request{
		Path: path, Language: "java", Key: "methods", QueryString: "(class_declaration) @c",
	})
	assert.True(t, errors.Is(err, core.ErrInvalidQueryRequest))
}

func TestUnknownLanguage(t *testing.T) {
	path := writeFixture(t, "a.txt", "text")
	svc := NewService(nil)

	_, err := svc.Execute(context.Background(), Request{Path: path, Language: "cobol", Key: "functions"})
	var unknownErr *core.UnknownLanguageError
	assert.True(t, errors.As(err, &unknownErr))
}

func TestUnknownKey(t *testing.T) {
	path := writeFixture(t, "UserService.java", javaFixture)
	svc := NewService(nil)

	_, err := svc.Execute(context.Background(), Request{Path: path, Language: "java", Key: "widgets"})
	var notFound *core.QueryNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestMissingFile(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Execute(context.Background(), Request{
		Path: filepath.Join(t.TempDir(), "nope.java"), Language: "java", Key: "methods",
	})
	assert.True(t, errors.Is(err, core.ErrFileNotFound))
}

// A compiling query that matches nothing routes through the plugin
// fallback, which synthesizes the functions category.
func TestPluginFallbackOnEmptyNativeResult(t *testing.T) {
	path := writeFixture(t, "mixed.js", jsFixture)
	svc := NewService(nil)

	records, err := svc.Execute(context.Background(), Request{
		Path: path, Language: "javascript", QueryString: "(labeled_statement) @none",
	})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "functions", records[0].CaptureName)
}

func TestAvailableQueries(t *testing.T) {
	svc := NewService(nil)
	keys := svc.AvailableQueries("java")
	assert.Contains(t, keys, "functions")
	assert.Contains(t, keys, "annotations")
}
