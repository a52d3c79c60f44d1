package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockerhq/locker/pkg/types"
)

// createItem inserts an item for the given owner and returns it.
func createItem(t *testing.T, b *Backend, userID int64, name string) *types.Item {
	t.Helper()
	items, err := b.Items()
	require.NoError(t, err)

	item := &types.Item{UserID: userID, Name: name}
	require.NoError(t, items.Create(context.Background(), item))
	return item
}

func TestItemsCreateGet(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	items, err := b.Items()
	require.NoError(t, err)

	alice := createUser(t, b, "alice")
	item := createItem(t, b, alice.ID, "sword")
	assert.Positive(t, item.ID)

	got, err := items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Equal(t, "sword", got.Name)

	_, err = items.Get(ctx, 99999)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestItemsDelete(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	items, err := b.Items()
	require.NoError(t, err)
	sendings, err := b.Sendings()
	require.NoError(t, err)

	alice := createUser(t, b, "alice")
	bob := createUser(t, b, "bob")

	t.Run("delete removes the item", func(t *testing.T) {
		item := createItem(t, b, alice.ID, "sword")
		require.NoError(t, items.Delete(ctx, item.ID))

		_, err := items.Get(ctx, item.ID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("delete cascades pending sendings", func(t *testing.T) {
		item := createItem(t, b, alice.ID, "shield")
		sending, err := sendings.Initiate(ctx, item.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		require.NoError(t, items.Delete(ctx, item.ID))

		_, err = sendings.GetByToken(ctx, sending.Token)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("missing item returns ErrNotFound", func(t *testing.T) {
		err := items.Delete(ctx, 99999)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestItemsListByUser(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	items, err := b.Items()
	require.NoError(t, err)

	alice := createUser(t, b, "alice")
	bob := createUser(t, b, "bob")

	got, err := items.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	first := createItem(t, b, alice.ID, "sword")
	second := createItem(t, b, alice.ID, "shield")
	createItem(t, b, bob.ID, "lantern")

	got, err = items.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	all, err := items.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
