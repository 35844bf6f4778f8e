package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veo1/supplier-registry/app/listing"
	"github.com/veo1/supplier-registry/models"
)

const (
	editName = iota
	editAddress
	editContact
	editFieldCount
)

type suppliersModel struct {
	ctx     context.Context
	session *listing.Session
	photos  PhotoStore

	search    textinput.Model
	searching bool
	// category indexes categories; -1 shows every category.
	category   int
	categories []models.Category
	cursor     int

	edit      [editFieldCount]textinput.Model
	editField int

	confirm   *listing.Confirmation
	busy      bool
	status    string
	statusErr bool
}

func newSuppliersModel(ctx context.Context, session *listing.Session, photos PhotoStore) suppliersModel {
	search := newInput("Search name, address or contact")
	search.Prompt = "/ "

	m := suppliersModel{
		ctx:        ctx,
		session:    session,
		photos:     photos,
		search:     search,
		category:   -1,
		categories: models.AllCategories(),
	}
	m.edit[editName] = newInput("Name")
	m.edit[editAddress] = newInput("Address")
	m.edit[editContact] = newInput("Contact")
	return m
}

// reload refreshes the list from the store.
func (m suppliersModel) reload() (suppliersModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		return suppliersLoadedMsg{err: session.Reload(ctx)}
	}
}

func (m suppliersModel) Update(msg tea.Msg) (suppliersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case suppliersLoadedMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, listing.ErrBusy):
		case msg.err != nil:
			m.setStatus("Could not load suppliers", true)
		default:
			m.setStatus("", false)
		}
		if !m.session.PendingDelete() {
			m.confirm = nil
		}
		m.clampCursor()
		return m, nil

	case supplierSavedMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, models.ErrValidationFailed) {
				m.setStatus("Name, address and contact are required", true)
			} else {
				m.setStatus("Could not save changes", true)
			}
			return m, nil
		}
		m.blurEdit()
		m.setStatus("Changes saved", false)
		return m, nil

	case supplierDeletedMsg:
		m.busy = false
		m.confirm = nil
		if msg.err != nil {
			m.setStatus("Could not delete supplier", true)
			return m, nil
		}
		m.clampCursor()
		m.setStatus("Supplier deleted", false)
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.session.State() {
		case listing.StateEditing:
			return m.updateEditing(msg)
		case listing.StateViewing:
			return m.updateViewing(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m suppliersModel) updateBrowsing(msg tea.KeyMsg) (suppliersModel, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.session.SetSearchTerm(m.search.Value())
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case "c":
		m.cycleCategory()

	case "x":
		m.search.SetValue("")
		m.session.SetSearchTerm("")
		m.category = -1
		_ = m.session.SetCategory(nil)
		m.clampCursor()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.session.Visible())-1 {
			m.cursor++
		}

	case "enter":
		visible := m.session.Visible()
		if len(visible) == 0 {
			return m, nil
		}
		if err := m.session.Select(visible[m.cursor].ID); err != nil {
			m.setStatus("Supplier no longer exists", true)
			return m, nil
		}
		m.setStatus("", false)

	case "r":
		return m.reload()
	}
	return m, nil
}

func (m suppliersModel) updateViewing(msg tea.KeyMsg) (suppliersModel, tea.Cmd) {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			m.busy = true
			ctx, session := m.ctx, m.session
			return m, func() tea.Msg {
				return supplierDeletedMsg{err: session.ConfirmDelete(ctx, listing.ChoiceDelete)}
			}
		case "n", "N", "esc":
			_ = m.session.ConfirmDelete(m.ctx, listing.ChoiceCancel)
			m.confirm = nil
			m.setStatus("Delete cancelled", false)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q", "backspace":
		_ = m.session.Close()
		m.setStatus("", false)

	case "e":
		if err := m.session.BeginEdit(); err != nil {
			return m, nil
		}
		draft, _ := m.session.Draft()
		m.edit[editName].SetValue(draft.Name)
		m.edit[editAddress].SetValue(draft.Address)
		m.edit[editContact].SetValue(draft.Contact)
		m.setStatus("", false)
		cmd := m.focusEdit(editName)
		return m, cmd

	case "d":
		conf, err := m.session.RequestDelete()
		if err != nil {
			return m, nil
		}
		m.confirm = &conf
	}
	return m, nil
}

func (m suppliersModel) updateEditing(msg tea.KeyMsg) (suppliersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		_ = m.session.CancelEdit()
		m.blurEdit()
		m.setStatus("Edit discarded", false)
		return m, nil

	case "tab", "down":
		cmd := m.focusEdit((m.editField + 1) % editFieldCount)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.focusEdit((m.editField + editFieldCount - 1) % editFieldCount)
		return m, cmd

	case "enter":
		m.busy = true
		ctx, session := m.ctx, m.session
		return m, func() tea.Msg {
			rec, err := session.SaveEdit(ctx)
			return supplierSavedMsg{rec: rec, err: err}
		}
	}

	var cmd tea.Cmd
	m.edit[m.editField], cmd = m.edit[m.editField].Update(msg)
	value := m.edit[m.editField].Value()
	switch m.editField {
	case editName:
		_ = m.session.SetDraftName(value)
	case editAddress:
		_ = m.session.SetDraftAddress(value)
	case editContact:
		_ = m.session.SetDraftContact(value)
	}
	return m, cmd
}

func (m *suppliersModel) focusEdit(field int) tea.Cmd {
	m.blurEdit()
	m.editField = field
	return m.edit[field].Focus()
}

func (m *suppliersModel) blurEdit() {
	for i := range m.edit {
		m.edit[i].Blur()
	}
}

func (m *suppliersModel) cycleCategory() {
	m.category++
	if m.category >= len(m.categories) {
		m.category = -1
	}
	if m.category < 0 {
		_ = m.session.SetCategory(nil)
	} else {
		id := m.categories[m.category].ID
		_ = m.session.SetCategory(&id)
	}
	m.clampCursor()
}

func (m *suppliersModel) clampCursor() {
	n := len(m.session.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *suppliersModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m suppliersModel) View() string {
	var b strings.Builder

	b.WriteString(m.search.View() + "\n")
	b.WriteString(m.categoryChips() + "\n\n")

	switch m.session.State() {
	case listing.StateEditing:
		b.WriteString(m.editView())
	case listing.StateViewing:
		b.WriteString(m.detailView())
	default:
		b.WriteString(m.listView())
	}

	if m.busy {
		b.WriteString("\n" + mutedStyle.Render("Working..."))
	} else if m.status != "" {
		b.WriteString("\n" + renderStatus(m.status, m.statusErr))
	}
	return b.String()
}

func (m suppliersModel) categoryChips() string {
	chips := make([]string, 0, len(m.categories)+1)
	all := chipStyle
	if m.category < 0 {
		all = activeChipStyle
	}
	chips = append(chips, all.Render("All"))
	for i, c := range m.categories {
		style := chipStyle
		if i == m.category {
			style = activeChipStyle
		}
		chips = append(chips, style.Render(c.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m suppliersModel) listView() string {
	visible := m.session.Visible()
	if len(visible) == 0 {
		return mutedStyle.Render("  No suppliers found") + "\n"
	}

	var b strings.Builder
	for i, rec := range visible {
		prefix := "  "
		if i == m.cursor {
			prefix = selectionStyle.Render("> ")
		}
		line := fmt.Sprintf("%s  %s", rec.Name, mutedStyle.Render(rec.Address))
		if names := rec.Categories.Names(); len(names) > 0 {
			line += "  " + mutedStyle.Render("("+strings.Join(names, ", ")+")")
		}
		b.WriteString(prefix + line + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%s\n", mutedStyle.Render(fmt.Sprintf("%d of %d suppliers", len(visible), len(m.session.Records())))))
	return b.String()
}

func (m suppliersModel) detailView() string {
	rec, ok := m.session.Viewed()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(rec.Name) + "\n")
	b.WriteString(labelStyle.Render("Address") + rec.Address + "\n")
	b.WriteString(labelStyle.Render("Contact") + rec.Contact + "\n")
	categories := "none"
	if len(rec.Categories) > 0 {
		categories = strings.Join(rec.Categories.Names(), ", ")
	}
	b.WriteString(labelStyle.Render("Categories") + categories + "\n")
	b.WriteString(labelStyle.Render("Photo") + m.photoLine(rec) + "\n")

	if m.confirm != nil {
		b.WriteString("\n" + dangerStyle.Render(m.confirm.Message) + "\n")
		b.WriteString(mutedStyle.Render("[y] "+listing.ChoiceDelete.String()+"  [n] "+listing.ChoiceCancel.String()) + "\n")
	}
	return paneStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n"
}

func (m suppliersModel) photoLine(rec models.Record) string {
	if !rec.HasPhoto() {
		return "none"
	}
	if m.photos == nil {
		return *rec.ImageURI
	}
	if path, ok := m.photos.Resolve(*rec.ImageURI); ok {
		return path
	}
	return errorStyle.Render("image unavailable")
}

func (m suppliersModel) editView() string {
	labels := [editFieldCount]string{"Name", "Address", "Contact"}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit supplier") + "\n")
	for i := range m.edit {
		prefix := "  "
		if i == m.editField {
			prefix = selectionStyle.Render("> ")
		}
		b.WriteString(prefix + labelStyle.Render(labels[i]) + m.edit[i].View() + "\n")
	}
	return paneStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n"
}
