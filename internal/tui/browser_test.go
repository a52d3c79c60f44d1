package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockerhq/locker/pkg/client"
	"github.com/lockerhq/locker/pkg/types"
)

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func loadedModel(t *testing.T, entries ...types.ItemEntry) model {
	t.Helper()

	m, _ := update(t, newModel(nil, "token"), itemsLoadedMsg{entries: entries})
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBrowserLoadsItems(t *testing.T) {
	m := loadedModel(t,
		types.ItemEntry{ID: 1, Name: "spoon"},
		types.ItemEntry{ID: 2, Name: "fork"},
	)

	require.Len(t, m.list.Items(), 2)
	first, ok := m.list.Items()[0].(entryItem)
	require.True(t, ok)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "spoon", first.Name)
	assert.Contains(t, m.list.Title, "Locker")
	assert.Contains(t, m.list.Title, "2")
}

func TestBrowserAddFlow(t *testing.T) {
	m := loadedModel(t, types.ItemEntry{ID: 1, Name: "spoon"})

	m, _ = update(t, m, runeKey('a'))
	require.True(t, m.adding)

	t.Run("typed keys go to the input bar", func(t *testing.T) {
		for _, r := range "cup" {
			m, _ = update(t, m, runeKey(r))
		}
		assert.Equal(t, "cup", m.ti.Value())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		m.ti.SetValue("   ")
		next, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.True(t, next.adding)
		assert.Equal(t, "name cannot be empty", next.addErr)
	})

	t.Run("enter submits and closes the bar", func(t *testing.T) {
		m.ti.SetValue("cup")
		next, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.False(t, next.adding)
		assert.Empty(t, next.ti.Value())

		next, _ = update(t, next, itemCreatedMsg{entry: types.ItemEntry{ID: 2, Name: "cup"}})
		require.Len(t, next.list.Items(), 2)
		assert.Contains(t, next.status, "cup")
	})

	t.Run("esc cancels", func(t *testing.T) {
		next, _ := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, next.adding)
		assert.Empty(t, next.ti.Value())
	})
}

func TestBrowserRemove(t *testing.T) {
	m := loadedModel(t,
		types.ItemEntry{ID: 1, Name: "spoon"},
		types.ItemEntry{ID: 2, Name: "fork"},
	)

	_, cmd := update(t, m, runeKey('d'))
	require.NotNil(t, cmd)

	m, _ = update(t, m, itemRemovedMsg{id: 1, name: "spoon"})
	require.Len(t, m.list.Items(), 1)
	left, ok := m.list.Items()[0].(entryItem)
	require.True(t, ok)
	assert.Equal(t, "fork", left.Name)
	assert.Contains(t, m.status, "spoon")

	t.Run("unknown id leaves the list alone", func(t *testing.T) {
		next, _ := update(t, m, itemRemovedMsg{id: 99, name: "ghost"})
		assert.Len(t, next.list.Items(), 1)
	})
}

func TestBrowserReload(t *testing.T) {
	m := loadedModel(t, types.ItemEntry{ID: 1, Name: "spoon"})

	_, cmd := update(t, m, runeKey('r'))
	require.NotNil(t, cmd)

	m, _ = update(t, m, itemsLoadedMsg{entries: []types.ItemEntry{
		{ID: 3, Name: "plate"},
		{ID: 4, Name: "mug"},
	}})
	require.Len(t, m.list.Items(), 2)
	assert.Contains(t, m.list.Title, "2")
}

func TestBrowserRequestFailed(t *testing.T) {
	m := loadedModel(t)

	m, _ = update(t, m, requestFailedMsg{err: &client.APIError{
		Status: 401,
		Detail: "Token has not been authorized",
	}})
	assert.Contains(t, m.status, "Token has not been authorized")
}

func TestBrowserQuit(t *testing.T) {
	m := loadedModel(t)

	for _, k := range []tea.KeyMsg{
		runeKey('q'),
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := update(t, m, k)
		require.NotNil(t, cmd, "key %s should quit", k.String())
		_, quit := cmd().(tea.QuitMsg)
		assert.True(t, quit, "key %s should quit", k.String())
	}
}

func TestBrowserView(t *testing.T) {
	m := loadedModel(t, types.ItemEntry{ID: 1, Name: "spoon"})

	view := m.View()
	assert.Contains(t, view, "spoon")

	m, _ = update(t, m, runeKey('a'))
	view = m.View()
	assert.Contains(t, view, "Add an item")
}
