package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockerhq/locker/pkg/types"
)

// testConfig returns a valid config rooted in a per-test temp dir.
func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Backend:  types.BackendSQLite,
		DataDir:  t.TempDir(),
		Host:     types.DefaultHost,
		Port:     types.DefaultPort,
		TokenTTL: types.DefaultTokenTTL,
	}
}

// setupBackend creates an attached Backend with a cleanup-deferred detach.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(t)))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendAttachDetach(t *testing.T) {
	t.Run("attach creates data dir and database file", func(t *testing.T) {
		config := testConfig(t)
		config.DataDir = filepath.Join(config.DataDir, "nested", "data")

		b := NewBackend()
		require.NoError(t, b.Attach(config))
		t.Cleanup(func() { b.Detach() })

		_, err := os.Stat(filepath.Join(config.DataDir, dbFileName))
		assert.NoError(t, err)
	})

	t.Run("double attach returns ErrAlreadyAttached", func(t *testing.T) {
		b := setupBackend(t)
		err := b.Attach(testConfig(t))
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := NewBackend()
		require.NoError(t, b.Attach(testConfig(t)))
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
	})

	t.Run("accessors return ErrStoreDetached after detach", func(t *testing.T) {
		b := NewBackend()
		require.NoError(t, b.Attach(testConfig(t)))
		require.NoError(t, b.Detach())

		_, err := b.Users()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.Items()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.Sendings()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("accessors return ErrStoreDetached before attach", func(t *testing.T) {
		b := NewBackend()
		_, err := b.Users()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		config := testConfig(t)
		config.Backend = "postgres"

		b := NewBackend()
		err := b.Attach(config)
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("data survives detach and reattach", func(t *testing.T) {
		config := testConfig(t)

		b := NewBackend()
		require.NoError(t, b.Attach(config))

		users, err := b.Users()
		require.NoError(t, err)
		user := &types.User{Login: "alice", PasswordHash: "x"}
		require.NoError(t, users.Create(context.Background(), user))
		require.NoError(t, b.Detach())

		b2 := NewBackend()
		require.NoError(t, b2.Attach(config))
		t.Cleanup(func() { b2.Detach() })

		users2, err := b2.Users()
		require.NoError(t, err)
		got, err := users2.GetByLogin(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})
}
