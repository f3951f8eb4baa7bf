package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRootsEven(t *testing.T) {
	chunks := splitRoots([]string{"a", "b", "c", "d"}, 4)
	require.Len(t, chunks, 4)
	for _, chunk := range chunks {
		assert.Len(t, chunk, 1)
	}
}

func TestSplitRootsRemainderGoesToLeadingChunks(t *testing.T) {
	chunks := splitRoots([]string{"a", "b", "c", "d", "e", "f"}, 4)
	require.Len(t, chunks, 4)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"e"}, chunks[2])
	assert.Equal(t, []string{"f"}, chunks[3])
}

func TestSplitRootsFewerThanChunks(t *testing.T) {
	chunks := splitRoots([]string{"a", "b"}, 4)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a"}, chunks[0])
	assert.Equal(t, []string{"b"}, chunks[1])
}

func TestSplitRootsSingle(t *testing.T) {
	chunks := splitRoots([]string{"a"}, 4)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"a"}, chunks[0])
}

func TestSplitRootsPreservesOrderAndTotal(t *testing.T) {
	roots := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"}
	chunks := splitRoots(roots, 4)
	var flattened []string
	for _, chunk := range chunks {
		flattened = append(flattened, chunk...)
	}
	assert.Equal(t, roots, flattened)
}

func TestMergeCounts(t *testing.T) {
	merged := mergeCounts([]map[string]int{
		{"a.py": 5, TotalCountKey: 5},
		{"b.py": 3, TotalCountKey: 3},
	})
	assert.Equal(t, 5, merged["a.py"])
	assert.Equal(t, 3, merged["b.py"])
	assert.Equal(t, 8, merged[TotalCountKey])
}

func TestMergeCountsSumsDuplicatesDefensively(t *testing.T) {
	merged := mergeCounts([]map[string]int{
		{"a.py": 2, TotalCountKey: 2},
		{"a.py": 3, TotalCountKey: 3},
	})
	assert.Equal(t, 5, merged["a.py"])
	assert.Equal(t, 5, merged[TotalCountKey])
}
