package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `users:
  - login: alice
    password: wonderland
    items:
      - sword
      - shield
  - login: bob
    password: builder
    items:
      - lantern
  - login: carol
    password: singer
`

// writeFixtures writes content to a temp fixtures file and returns its path.
func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	t.Run("parses users and items", func(t *testing.T) {
		fixtures, err := LoadSeedFile(writeFixtures(t, fixturesYAML))
		require.NoError(t, err)
		require.Len(t, fixtures.Users, 3)
		assert.Equal(t, "alice", fixtures.Users[0].Login)
		assert.Equal(t, []string{"sword", "shield"}, fixtures.Users[0].Items)
		assert.Empty(t, fixtures.Users[2].Items)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadSeedFile(writeFixtures(t, "users: ["))
		assert.Error(t, err)
	})

	t.Run("empty login rejected", func(t *testing.T) {
		_, err := LoadSeedFile(writeFixtures(t, "users:\n  - login: \"\"\n    password: x\n"))
		assert.ErrorContains(t, err, "login")
	})

	t.Run("empty password rejected", func(t *testing.T) {
		_, err := LoadSeedFile(writeFixtures(t, "users:\n  - login: dave\n    password: \"\"\n"))
		assert.ErrorContains(t, err, "password")
	})
}

func TestSeed(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	fixtures, err := LoadSeedFile(writeFixtures(t, fixturesYAML))
	require.NoError(t, err)

	var ticks int
	created, skipped, err := b.Seed(ctx, fixtures, func() { ticks++ })
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 3, ticks)

	users, err := b.Users()
	require.NoError(t, err)
	items, err := b.Items()
	require.NoError(t, err)

	alice, err := users.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.CheckPassword("wonderland"))

	owned, err := items.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "sword", owned[0].Name)

	t.Run("reseeding skips existing logins", func(t *testing.T) {
		created, skipped, err := b.Seed(ctx, fixtures, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 3, skipped)

		// No duplicate items were created for skipped users.
		owned, err := items.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 2)
	})
}
