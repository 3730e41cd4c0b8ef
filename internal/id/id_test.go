package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"list", "book", "note"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))

			// NanoID default is 21 characters.
			nanoidPart := strings.TrimPrefix(id, prefix+"-")
			assert.Len(t, nanoidPart, 21)

			// All characters URL-safe (A-Za-z0-9_-).
			for _, char := range nanoidPart {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"character %c should be URL-safe", char)
			}
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate("test")

	assert.True(t, strings.HasPrefix(id, "test-"))
	assert.Equal(t, len("test")+1+21, len(id))
}

func TestTimestamped_Format(t *testing.T) {
	id, err := Timestamped("search")
	require.NoError(t, err)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "search", parts[0])
	assert.Regexp(t, `^\d+$`, parts[1])
	assert.Len(t, parts[2], 6)
}

func TestTimestamped_SortsByCreation(t *testing.T) {
	// IDs generated later never sort before earlier ones, because the
	// millisecond component is zero-padded by its own magnitude for the
	// foreseeable future.
	first, err := Timestamped("search")
	require.NoError(t, err)
	second, err := Timestamped("search")
	require.NoError(t, err)

	assert.LessOrEqual(t, first[:len("search-")+13], second[:len("search-")+13])
}

func TestTimestamped_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := Timestamped("search")
		require.NoError(t, err)
		assert.False(t, ids[id])
		ids[id] = true
	}
}
