package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tool, ok := Lookup("hairstyle")
	require.True(t, ok)
	assert.Equal(t, "Hairstyle", tool.Name)
	assert.Equal(t, TypeTransformation, tool.Type)

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	all[0].Name = "mutated"

	fresh := All()
	assert.NotEqual(t, "mutated", fresh[0].Name)
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, tool := range All() {
		assert.False(t, seen[tool.ID], "duplicate tool id %s", tool.ID)
		seen[tool.ID] = true
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Type)
	}
}
