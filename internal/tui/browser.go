// Package tui implements the interactive locker browser behind the
// "locker browse" command. It renders the account's items as a
// scrollable list and applies every change through the API client, so
// the view never holds state the server does not already have.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lockerhq/locker/pkg/client"
	"github.com/lockerhq/locker/pkg/types"
)

// entryItem adapts a stored item to bubbles/list.Item.
type entryItem struct {
	ID   int64
	Name string
}

func (i entryItem) Title() string       { return i.Name }
func (i entryItem) Description() string { return "" }
func (i entryItem) FilterValue() string { return i.Name }

// Messages delivered by the asynchronous API commands.
type (
	itemsLoadedMsg struct{ entries []types.ItemEntry }
	itemCreatedMsg struct{ entry types.ItemEntry }
	itemRemovedMsg struct {
		id   int64
		name string
	}
	requestFailedMsg struct{ err error }
)

// entryDelegate renders one item per line with the numeric id dimmed.
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%s %s", mutedStyle.Render(fmt.Sprintf("#%d", it.ID)), it.Name)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type model struct {
	client *client.Client
	token  string

	list   list.Model
	ti     textinput.Model
	width  int
	height int

	adding bool
	addErr string
	status string
}

func newModel(c *client.Client, token string) model {
	l := list.New(nil, entryDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	removeBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, removeBind, reloadBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, removeBind, reloadBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Item name..."
	ti.CharLimit = 200

	m := model{client: c, token: token, list: l, ti: ti}
	m.refreshTitle()
	return m
}

// Run opens the browser on the given account and blocks until the user
// quits. Every add and remove is sent to the server as it happens, so
// there is nothing to write back on exit.
func Run(c *client.Client, token string) error {
	_, err := tea.NewProgram(newModel(c, token), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return m.loadCmd() }

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.client.Items(context.Background(), m.token)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return itemsLoadedMsg{entries: entries}
	}
}

func (m model) createCmd(name string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.client.CreateItem(context.Background(), m.token, name)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return itemCreatedMsg{entry: entry}
	}
}

func (m model) removeCmd(id int64, name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.DeleteItem(context.Background(), m.token, id); err != nil {
			return requestFailedMsg{err: err}
		}
		return itemRemovedMsg{id: id, name: name}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case itemsLoadedMsg:
		li := make([]list.Item, 0, len(msg.entries))
		for _, e := range msg.entries {
			li = append(li, entryItem{ID: e.ID, Name: e.Name})
		}
		cmd := m.list.SetItems(li)
		m.refreshTitle()
		return m, cmd
	case itemCreatedMsg:
		cmd := m.list.InsertItem(len(m.list.Items()), entryItem{ID: msg.entry.ID, Name: msg.entry.Name})
		m.status = successStyle.Render("✔ added " + msg.entry.Name)
		m.refreshTitle()
		return m, cmd
	case itemRemovedMsg:
		for i, it := range m.list.Items() {
			if e, ok := it.(entryItem); ok && e.ID == msg.id {
				m.list.RemoveItem(i)
				break
			}
		}
		m.status = successStyle.Render("✔ removed " + msg.name)
		m.refreshTitle()
		return m, nil
	case requestFailedMsg:
		m.status = errorStyle.Render("✖ " + errorText(msg.err))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The input bar owns the keyboard while an add is in flight.
	if m.adding {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.ti.Value())
			if name == "" {
				m.addErr = "name cannot be empty"
				return m, nil
			}
			m.adding = false
			m.addErr = ""
			m.ti.SetValue("")
			m.ti.Blur()
			return m, m.createCmd(name)
		case "esc":
			m.adding = false
			m.addErr = ""
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// While the list filter is open, every key belongs to it.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "a":
		m.adding = true
		m.status = ""
		m.ti.SetValue("")
		m.ti.Focus()
		return m, nil
	case "d":
		i := m.list.Index()
		if i >= 0 && i < len(m.list.Items()) {
			if e, ok := m.list.Items()[i].(entryItem); ok {
				return m, m.removeCmd(e.ID, e.Name)
			}
		}
		return m, nil
	case "r":
		m.status = ""
		return m, m.loadCmd()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listHeight := h - 4
	if m.adding {
		listHeight -= 4
	}
	if m.status != "" {
		listHeight--
	}
	m.list.SetSize(w-4, listHeight)

	content := m.list.View()
	if m.adding {
		title := "Add an item"
		if m.addErr != "" {
			title += "  " + errorStyle.Render(m.addErr)
		}
		content += "\n" + inputBarStyle.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + m.status
	}
	return panelStyle.Render(content)
}

func (m *model) refreshTitle() {
	m.list.Title = fmt.Sprintf("%s   %s %d",
		titleStyle.Render("Locker"),
		accentStyle.Render("items"), len(m.list.Items()),
	)
}

func errorText(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.Detail
	}
	return err.Error()
}
