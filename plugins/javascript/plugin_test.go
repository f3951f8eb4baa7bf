package javascript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/parser"
)

const fixtureSource = `import { fetchUser } from './api';
import * as utils from './utils';

const MAX_RETRIES = 3;
let counter = 0;

function regular(a, b) {
  if (a > b) {
    return a;
  }
  return b;
}

const arrow = (x) => x * 2;

class Controller {
  #secret = 42;
  static instances = 0;

  constructor(service) {
    this.service = service;
  }

  handle(request) {
    return request && this.service.process(request);
  }
}
`

func extract(t *testing.T, source string) map[string][]core.CodeElement {
	t.Helper()
	result, err := parser.ParseString(context.Background(), source, "javascript")
	require.NoError(t, err)
	t.Cleanup(result.Close)
	return New().ExtractElements(result.Tree, result.Source)
}

func TestFunctionKinds(t *testing.T) {
	elements := extract(t, fixtureSource)
	byName := map[string]core.CodeElement{}
	for _, fn := range elements["functions"] {
		byName[fn.Name] = fn
	}

	require.Contains(t, byName, "regular")
	require.Contains(t, byName, "arrow")
	require.Contains(t, byName, "handle")
	require.Contains(t, byName, "constructor")

	assert.True(t, byName["constructor"].IsConstructor)
	assert.Equal(t, 2, byName["regular"].ComplexityScore)
	assert.Equal(t, 2, byName["handle"].ComplexityScore) // entry + &&
}

func TestArrowInheritsVariableName(t *testing.T) {
	elements := extract(t, fixtureSource)
	found := false
	for _, fn := range elements["functions"] {
		if fn.Name == "arrow" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestVariablesSkipFunctionValues(t *testing.T) {
	elements := extract(t, fixtureSource)
	names := map[string]core.CodeElement{}
	for _, v := range elements["variables"] {
		names[v.Name] = v
	}
	assert.Contains(t, names, "MAX_RETRIES")
	assert.Contains(t, names, "counter")
	// The arrow function surfaces as a function, not a variable.
	assert.NotContains(t, names, "arrow")

	assert.True(t, names["MAX_RETRIES"].IsConstant)
	assert.False(t, names["counter"].IsConstant)
}

func TestClassAndFields(t *testing.T) {
	elements := extract(t, fixtureSource)
	require.Len(t, elements["classes"], 1)
	assert.Equal(t, "Controller", elements["classes"][0].Name)

	byName := map[string]core.CodeElement{}
	for _, f := range elements["fields"] {
		byName[f.Name] = f
	}
	require.Contains(t, byName, "#secret")
	require.Contains(t, byName, "instances")
	assert.Equal(t, core.VisibilityPrivate, byName["#secret"].Visibility)
	assert.True(t, byName["instances"].IsStatic)
}

func TestImports(t *testing.T) {
	elements := extract(t, fixtureSource)
	byName := map[string]core.CodeElement{}
	for _, imp := range elements["imports"] {
		byName[imp.Name] = imp
	}
	require.Contains(t, byName, "./api")
	require.Contains(t, byName, "./utils")
	assert.True(t, byName["./utils"].IsWildcard)
	assert.Equal(t, "utils", byName["./utils"].AliasedAs)
}

func TestSourceOrder(t *testing.T) {
	elements := extract(t, fixtureSource)
	last := 0
	for _, fn := range elements["functions"] {
		assert.GreaterOrEqual(t, fn.StartLine, last)
		last = fn.StartLine
	}
}
