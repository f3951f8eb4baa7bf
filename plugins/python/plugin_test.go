package python

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/parser"
)

const fixtureSource = `"""Module docstring."""

import os
import numpy as np
from collections import OrderedDict

MAX_SIZE = 100
_registry = {}


@dataclass
class UserStore:
    """Keeps users in memory."""

    capacity = 10

    def __init__(self, backend):
        self.backend = backend

    def find_user(self, user_id):
        """Looks up one user."""
        if user_id in self.backend:
            return self.backend[user_id]
        for candidate in self.backend.values():
            if candidate.id == user_id or candidate.alias == user_id:
                return candidate
        return None

    def _evict(self):
        pass


def helper(x, y=1):
    return x + y
`

func extract(t *testing.T, source string) map[string][]core.CodeElement {
	t.Helper()
	result, err := parser.ParseString(context.Background(), source, "python")
	require.NoError(t, err)
	t.Cleanup(result.Close)
	return New().ExtractElements(result.Tree, result.Source)
}

func TestFunctionExtraction(t *testing.T) {
	elements := extract(t, fixtureSource)
	names := map[string]core.CodeElement{}
	for _, fn := range elements["functions"] {
		names[fn.Name] = fn
	}

	require.Contains(t, names, "find_user")
	require.Contains(t, names, "helper")
	require.Contains(t, names, "__init__")

	assert.Contains(t, names["find_user"].Docstring, "Looks up one user")
	assert.Equal(t, core.VisibilityPrivate, names["_evict"].Visibility)
	assert.Equal(t, core.VisibilityPublic, names["find_user"].Visibility)
}

func TestConstructorUsesNoneSentinel(t *testing.T) {
	elements := extract(t, fixtureSource)
	for _, fn := range elements["functions"] {
		if fn.Name == "__init__" {
			assert.True(t, fn.IsConstructor)
			assert.Equal(t, "None", fn.ReturnType)
		} else {
			assert.False(t, fn.IsConstructor)
		}
	}
}

func TestComplexity(t *testing.T) {
	elements := extract(t, fixtureSource)
	for _, fn := range elements["functions"] {
		if fn.Name == "find_user" {
			// entry + if + for + if + or
			assert.Equal(t, 5, fn.ComplexityScore)
		}
	}
}

func TestClassExtraction(t *testing.T) {
	elements := extract(t, fixtureSource)
	require.Len(t, elements["classes"], 1)
	class := elements["classes"][0]

	assert.Equal(t, "UserStore", class.Name)
	assert.Contains(t, class.Docstring, "Keeps users in memory")
	require.Len(t, class.Annotations, 1)
	assert.Equal(t, "dataclass", class.Annotations[0].Name)
}

func TestModuleVariables(t *testing.T) {
	elements := extract(t, fixtureSource)
	names := map[string]bool{}
	for _, v := range elements["variables"] {
		names[v.Name] = true
	}
	assert.True(t, names["MAX_SIZE"])
	assert.True(t, names["_registry"])
	assert.True(t, names["capacity"])
	// Method locals like the loop variable candidate never surface.
	assert.False(t, names["candidate"])
}

func TestImports(t *testing.T) {
	elements := extract(t, fixtureSource)
	byName := map[string]core.CodeElement{}
	for _, imp := range elements["imports"] {
		byName[imp.Name] = imp
	}
	assert.Contains(t, byName, "os")
	assert.Contains(t, byName, "collections")
	require.Contains(t, byName, "numpy")
	assert.Equal(t, "np", byName["numpy"].AliasedAs)
}

func TestConstantsAlwaysFalse(t *testing.T) {
	// Python has no static/final concept, so is_constant stays false
	// even for ALL_CAPS module bindings.
	elements := extract(t, fixtureSource)
	for _, v := range elements["variables"] {
		assert.False(t, v.IsConstant)
	}
}
