package java

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/parser"
)

const userServiceSource = `package com.example.service;

import java.util.List;
import java.util.Optional;
import static java.util.Objects.requireNonNull;
import java.io.*;

/**
 * Service for user lookups.
 */
@Service
public class UserService {

    private static final int MAX_RESULTS = 100;
    private String a, b, c;

    @Autowired
    private UserRepository repository;

    public UserService(UserRepository repository) {
        this.repository = repository;
    }

    /**
     * Finds a user by id.
     */
    public Optional<User> findById(long id) throws UserNotFoundException {
        if (id <= 0) {
            throw new UserNotFoundException();
        }
        return repository.findById(id);
    }

    protected User createUser(String name, String email) {
        for (int i = 0; i < 3; i++) {
            if (name == null || email == null) {
                return null;
            }
        }
        return new User(name, email);
    }

    boolean validateUser(User user) {
        return user != null && user.isActive();
    }

    public static class Builder {
        private String name;
    }
}
`

func extract(t *testing.T, source string) map[string][]core.CodeElement {
	t.Helper()
	result, err := parser.ParseString(context.Background(), source, "java")
	require.NoError(t, err)
	t.Cleanup(result.Close)
	return New().ExtractElements(result.Tree, result.Source)
}

func TestExtractFunctionsCount(t *testing.T) {
	elements := extract(t, userServiceSource)
	functions := elements["functions"]
	require.Len(t, functions, 4)

	constructors := 0
	names := map[string]bool{}
	for _, fn := range functions {
		if fn.IsConstructor {
			constructors++
			assert.Equal(t, "void", fn.ReturnType)
		} else {
			names[fn.Name] = true
		}
	}
	assert.Equal(t, 1, constructors)
	assert.True(t, names["findById"])
	assert.True(t, names["createUser"])
	assert.True(t, names["validateUser"])
}

func TestMethodDetails(t *testing.T) {
	elements := extract(t, userServiceSource)

	var findByID *core.CodeElement
	for i := range elements["functions"] {
		if elements["functions"][i].Name == "findById" {
			findByID = &elements["functions"][i]
		}
	}
	require.NotNil(t, findByID)

	assert.Equal(t, core.VisibilityPublic, findByID.Visibility)
	assert.Equal(t, []string{"UserNotFoundException"}, findByID.Throws)
	require.Len(t, findByID.Parameters, 1)
	assert.Equal(t, "id", findByID.Parameters[0].Name)
	assert.Equal(t, "long", findByID.Parameters[0].Type)
	assert.Contains(t, findByID.Docstring, "Finds a user by id")
	// 1 entry + 1 if
	assert.Equal(t, 2, findByID.ComplexityScore)
	assert.True(t, findByID.StartLine >= 1)
	assert.True(t, findByID.EndLine >= findByID.StartLine)
}

func TestVisibilityDefaults(t *testing.T) {
	elements := extract(t, userServiceSource)
	for _, fn := range elements["functions"] {
		if fn.Name == "validateUser" {
			assert.Equal(t, core.VisibilityPackage, fn.Visibility)
		}
		if fn.Name == "createUser" {
			assert.Equal(t, core.VisibilityProtected, fn.Visibility)
		}
	}
}

func TestComplexityCountsDecisions(t *testing.T) {
	elements := extract(t, userServiceSource)
	for _, fn := range elements["functions"] {
		if fn.Name == "createUser" {
			// 1 entry + for + if + ||
			assert.Equal(t, 4, fn.ComplexityScore)
		}
		if fn.Name == "validateUser" {
			// 1 entry + &&
			assert.Equal(t, 2, fn.ComplexityScore)
		}
	}
}

func TestGroupedFieldDeclaration(t *testing.T) {
	elements := extract(t, userServiceSource)
	fields := elements["fields"]

	names := map[string]bool{}
	for _, f := range fields {
		names[f.Name] = true
	}
	for _, expected := range []string{"MAX_RESULTS", "a", "b", "c", "repository", "name"} {
		assert.True(t, names[expected], "missing field %s", expected)
	}
}

func TestConstantDetection(t *testing.T) {
	elements := extract(t, userServiceSource)
	for _, f := range elements["fields"] {
		if f.Name == "MAX_RESULTS" {
			assert.True(t, f.IsStatic)
			assert.True(t, f.IsFinal)
			assert.True(t, f.IsConstant)
		}
		if f.Name == "a" {
			assert.False(t, f.IsConstant)
			assert.Equal(t, "String", f.FieldType)
		}
	}
}

func TestClassExtraction(t *testing.T) {
	elements := extract(t, userServiceSource)
	classes := elements["classes"]
	require.Len(t, classes, 2)

	var outer, nested *core.CodeElement
	for i := range classes {
		switch classes[i].Name {
		case "UserService":
			outer = &classes[i]
		case "Builder":
			nested = &classes[i]
		}
	}
	require.NotNil(t, outer)
	require.NotNil(t, nested)

	assert.False(t, outer.IsNested)
	assert.Equal(t, "com.example.service", outer.PackageName)
	assert.Equal(t, "com.example.service.UserService", outer.FullyQualifiedName)
	assert.True(t, nested.IsNested)
	assert.Equal(t, "com.example.service.UserService.Builder", nested.FullyQualifiedName)
}

func TestImportFlags(t *testing.T) {
	elements := extract(t, userServiceSource)
	imports := elements["imports"]
	require.Len(t, imports, 4)

	byName := map[string]core.CodeElement{}
	for _, imp := range imports {
		byName[imp.Name] = imp
	}
	assert.Contains(t, byName, "java.util.List")
	assert.True(t, byName["java.util.Objects.requireNonNull"].IsStaticImport)

	wildcards := 0
	for _, imp := range imports {
		if imp.IsWildcard {
			wildcards++
		}
	}
	assert.Equal(t, 1, wildcards)
}

func TestPackageExtraction(t *testing.T) {
	elements := extract(t, userServiceSource)
	require.Len(t, elements["packages"], 1)
	assert.Equal(t, "com.example.service", elements["packages"][0].Name)
}

func TestAnnotationsHaveNoSigil(t *testing.T) {
	elements := extract(t, userServiceSource)
	require.NotEmpty(t, elements["annotations"])
	for _, ann := range elements["annotations"] {
		assert.NotContains(t, ann.Name, "@")
	}
}

func TestAnnotationAttachment(t *testing.T) {
	elements := extract(t, userServiceSource)
	for _, f := range elements["fields"] {
		if f.Name == "repository" {
			require.Len(t, f.Annotations, 1)
			assert.Equal(t, "Autowired", f.Annotations[0].Name)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	result, err := parser.ParseString(context.Background(), userServiceSource, "java")
	require.NoError(t, err)
	defer result.Close()

	plugin := New()
	first := plugin.ExtractElements(result.Tree, result.Source)
	second := plugin.ExtractElements(result.Tree, result.Source)
	assert.Equal(t, first, second)
}

func TestLineInvariants(t *testing.T) {
	elements := extract(t, userServiceSource)
	for category, els := range elements {
		for _, el := range els {
			assert.GreaterOrEqual(t, el.StartLine, 1, "category %s", category)
			assert.GreaterOrEqual(t, el.EndLine, el.StartLine, "category %s", category)
		}
	}
}

func TestEmptySourceYieldsEmptyCategories(t *testing.T) {
	elements := extract(t, "")
	total := 0
	for _, els := range elements {
		total += len(els)
	}
	assert.Zero(t, total)
}
