package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchornote/internal/anchornote/domain/fingerprint"
)

func TestCompute(t *testing.T) {
	t.Run("known vector", func(t *testing.T) {
		digest, err := fingerprint.Compute(7, "Shopping", "milk, eggs")
		require.NoError(t, err)
		assert.Equal(t, "0deba2ea11a12cc254848a4d9dcf3ec67c2a0c720681f655d046225ca05a76d2", digest.String())
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := fingerprint.Compute(42, "title", "content")
		require.NoError(t, err)

		second, err := fingerprint.Compute(42, "title", "content")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("fixed length lowercase hex", func(t *testing.T) {
		digest, err := fingerprint.Compute(1, "a", "b")
		require.NoError(t, err)
		assert.Len(t, digest.String(), 64)
		assert.Regexp(t, `^[0-9a-f]{64}$`, digest.String())
	})

	t.Run("empty title and content are legal", func(t *testing.T) {
		digest, err := fingerprint.Compute(3, "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, digest)
	})

	t.Run("missing note id", func(t *testing.T) {
		_, err := fingerprint.Compute(0, "title", "content")
		require.Error(t, err)
		assert.ErrorIs(t, err, fingerprint.ErrMissingNoteID)

		_, err = fingerprint.Compute(-5, "title", "content")
		assert.ErrorIs(t, err, fingerprint.ErrMissingNoteID)
	})
}

func TestComputeSensitivity(t *testing.T) {
	base, err := fingerprint.Compute(7, "Shopping", "milk, eggs")
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      int64
		title   string
		content string
	}{
		{"changed id", 8, "Shopping", "milk, eggs"},
		{"changed title", 7, "shopping", "milk, eggs"},
		{"changed content", 7, "Shopping", "milk, eggs, bread"},
		{"single byte in content", 7, "Shopping", "milk, egga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := fingerprint.Compute(tt.id, tt.title, tt.content)
			require.NoError(t, err)
			assert.NotEqual(t, base, digest)
		})
	}
}

func TestDigestBytes(t *testing.T) {
	digest, err := fingerprint.Compute(7, "Shopping", "milk, eggs")
	require.NoError(t, err)

	// Нагрузка для реестра - ASCII hex-строки, а не сырые байты хэша.
	assert.Equal(t, []byte(digest.String()), digest.Bytes())
	assert.Len(t, digest.Bytes(), 64)
}
