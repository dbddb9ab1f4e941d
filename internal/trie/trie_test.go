package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertLookup(t *testing.T) {
	tr := New[int]()
	require.True(t, tr.Insert("con_", 1))
	require.True(t, tr.Insert("con_enable", 2))
	require.True(t, tr.Insert("housekeeping", 3))

	v, ok := tr.Lookup("con_")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = tr.Lookup("con_enable")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tr.Lookup("con_enabl")
	assert.False(t, ok)
}

func TestInsertDuplicateRejected(t *testing.T) {
	tr := New[string]()
	require.True(t, tr.Insert("autojump", "first"))
	assert.False(t, tr.Insert("autojump", "second"))

	v, ok := tr.Lookup("autojump")
	require.True(t, ok)
	assert.Equal(t, "first", v, "a rejected duplicate insert must not overwrite the original value")
}

func TestHas(t *testing.T) {
	tr := New[bool]()
	tr.Insert("demo_record", true)
	assert.True(t, tr.Has("demo_record"))
	assert.False(t, tr.Has("demo_stop"))
}

func TestWalkPrefix(t *testing.T) {
	tr := New[int]()
	tr.Insert("con_enable", 1)
	tr.Insert("con_disable", 2)
	tr.Insert("cvar_other", 3)

	seen := map[string]int{}
	tr.WalkPrefix("con_", func(key string, value int) {
		seen[key] = value
	})
	assert.Len(t, seen, 2)
	assert.Equal(t, 1, seen["con_enable"])
	assert.Equal(t, 2, seen["con_disable"])
	assert.NotContains(t, seen, "cvar_other")
}

func TestSize(t *testing.T) {
	tr := New[int]()
	assert.Equal(t, 0, tr.Size())
	tr.Insert("a", 1)
	tr.Insert("ab", 2)
	tr.Insert("abc", 3)
	assert.Equal(t, 3, tr.Size())
}
