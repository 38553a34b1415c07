package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2025-06-01T09:00:00Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.ID)
	assert.Equal(t, "2025-06-01T09:00:00Z", cursor.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not-base64!!")
	assert.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	type row struct{ ID int }
	extract := func(r *row) string { return strconv.Itoa(r.ID) }

	t.Run("empty result", func(t *testing.T) {
		info := BuildCursorPageInfo([]*row{}, 2, extract)
		assert.False(t, info.HasMore)
		assert.Empty(t, info.NextPageToken)
	})

	t.Run("result within limit", func(t *testing.T) {
		info := BuildCursorPageInfo([]*row{{ID: 1}, {ID: 2}}, 2, extract)
		assert.False(t, info.HasMore)
		assert.Equal(t, "2", info.NextPageToken)
	})

	t.Run("limit plus one signals more", func(t *testing.T) {
		info := BuildCursorPageInfo([]*row{{ID: 1}, {ID: 2}, {ID: 3}}, 2, extract)
		assert.True(t, info.HasMore)
		// The token points at the last row of the trimmed page.
		assert.Equal(t, "2", info.NextPageToken)
	})
}
