package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRefUnmarshal(t *testing.T) {
	t.Run("embedded summary", func(t *testing.T) {
		var ref UserRef
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","username":"alice"}`), &ref))
		assert.Equal(t, "u1", ref.ID())

		name, ok := ref.Username()
		assert.True(t, ok)
		assert.Equal(t, "alice", name)
	})

	t.Run("bare identifier", func(t *testing.T) {
		var ref UserRef
		require.NoError(t, json.Unmarshal([]byte(`"u2"`), &ref))
		assert.Equal(t, "u2", ref.ID())

		_, ok := ref.Username()
		assert.False(t, ok)
		assert.Equal(t, "Unknown", ref.DisplayName())
	})

	t.Run("summary without username", func(t *testing.T) {
		var ref UserRef
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"u3"}`), &ref))
		assert.Equal(t, "u3", ref.ID())
		assert.Equal(t, "Unknown", ref.DisplayName())
	})

	t.Run("mixed reaction set on a post", func(t *testing.T) {
		raw := `{"_id":"p1","likes":[{"_id":"u1","username":"alice"},"u2"]}`
		var post Post
		require.NoError(t, json.Unmarshal([]byte(raw), &post))
		require.Len(t, post.Likes, 2)
		assert.Equal(t, "u1", post.Likes[0].ID())
		assert.Equal(t, "u2", post.Likes[1].ID())
	})
}

func TestUserRefMarshal(t *testing.T) {
	summary, err := json.Marshal(UserSummary("u1", "alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1","username":"alice"}`, string(summary))

	bare, err := json.Marshal(UserID("u2"))
	require.NoError(t, err)
	assert.JSONEq(t, `"u2"`, string(bare))
}
