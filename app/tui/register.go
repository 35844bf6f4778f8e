package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veo1/supplier-registry/app/photo"
	"github.com/veo1/supplier-registry/app/registration"
	"github.com/veo1/supplier-registry/models"
)

// PhotoStore imports picked images and checks cached ones.
type PhotoStore interface {
	Import(srcPath string) (string, error)
	Resolve(ref string) (string, bool)
}

type registerField int

const (
	fieldName registerField = iota
	fieldAddress
	fieldContact
	fieldCategories
	fieldPhoto
	fieldSubmit
	registerFieldCount
)

type registerModel struct {
	ctx    context.Context
	flow   *registration.Flow
	photos PhotoStore

	name    textinput.Model
	address textinput.Model
	contact textinput.Model
	photo   textinput.Model

	categories []models.Category
	chip       int
	focused    registerField
	busy       bool
	status     string
	statusErr  bool
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Width = 40
	ti.CharLimit = 200
	return ti
}

func newRegisterModel(ctx context.Context, flow *registration.Flow, photos PhotoStore) registerModel {
	m := registerModel{
		ctx:        ctx,
		flow:       flow,
		photos:     photos,
		name:       newInput("Supplier name"),
		address:    newInput("Street, number, city"),
		contact:    newInput("Phone or e-mail"),
		photo:      newInput("Path to an image file (optional)"),
		categories: models.AllCategories(),
	}
	m.name.Focus()
	return m
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case supplierRegisteredMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(registerErrorText(msg.err), true)
			return m, nil
		}
		m.flow.Reset()
		m.clear()
		m.setStatus(fmt.Sprintf("Registered %s", msg.rec.Name), false)
		return m, nil

	case photoImportedMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, photo.ErrCancelled):
			m.flow.SetPhoto("")
			m.setStatus("No photo selected", false)
		case errors.Is(msg.err, photo.ErrNotImage):
			m.setStatus("That file is not an image", true)
		case msg.err != nil:
			m.setStatus("Could not read the photo", true)
		default:
			m.flow.SetPhoto(msg.ref)
			m.setStatus("Photo attached", false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m = m.focus(m.focused + 1)
			return m, nil

		case "shift+tab", "up":
			m = m.focus(m.focused - 1)
			return m, nil

		case "left":
			if m.focused == fieldCategories {
				m.chip = (m.chip + len(m.categories) - 1) % len(m.categories)
				return m, nil
			}

		case "right":
			if m.focused == fieldCategories {
				m.chip = (m.chip + 1) % len(m.categories)
				return m, nil
			}

		case " ":
			if m.focused == fieldCategories {
				m.toggleChip()
				return m, nil
			}

		case "enter":
			switch m.focused {
			case fieldCategories:
				m.toggleChip()
			case fieldPhoto:
				return m.importPhoto()
			case fieldSubmit:
				return m.submit()
			default:
				m = m.focus(m.focused + 1)
			}
			return m, nil
		}
	}

	if in := m.input(m.focused); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		m.sync()
		return m, cmd
	}
	return m, nil
}

func (m *registerModel) input(f registerField) *textinput.Model {
	switch f {
	case fieldName:
		return &m.name
	case fieldAddress:
		return &m.address
	case fieldContact:
		return &m.contact
	case fieldPhoto:
		return &m.photo
	}
	return nil
}

func (m registerModel) focus(f registerField) registerModel {
	f = (f + registerFieldCount) % registerFieldCount
	for _, in := range []*textinput.Model{&m.name, &m.address, &m.contact, &m.photo} {
		in.Blur()
	}
	if in := m.input(f); in != nil {
		in.Focus()
	}
	m.focused = f
	return m
}

func (m *registerModel) sync() {
	m.flow.SetName(m.name.Value())
	m.flow.SetAddress(m.address.Value())
	m.flow.SetContact(m.contact.Value())
}

func (m *registerModel) toggleChip() {
	if err := m.flow.ToggleCategory(m.categories[m.chip].ID); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *registerModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *registerModel) clear() {
	for _, in := range []*textinput.Model{&m.name, &m.address, &m.contact, &m.photo} {
		in.SetValue("")
	}
	m.chip = 0
	*m = m.focus(fieldName)
}

func (m registerModel) importPhoto() (registerModel, tea.Cmd) {
	if m.photos == nil {
		m.setStatus("Photos are not available", true)
		return m, nil
	}
	m.busy = true
	photos, path := m.photos, m.photo.Value()
	return m, func() tea.Msg {
		ref, err := photos.Import(path)
		return photoImportedMsg{ref: ref, err: err}
	}
}

// submit validates on the event loop; only the store write runs in the command.
// The form is reset when supplierRegisteredMsg arrives.
func (m registerModel) submit() (registerModel, tea.Cmd) {
	rec, err := m.flow.Prepare()
	if err != nil {
		m.setStatus(registerErrorText(err), true)
		return m, nil
	}
	m.busy = true
	ctx, flow := m.ctx, m.flow
	return m, func() tea.Msg {
		return supplierRegisteredMsg{rec: rec, err: flow.Save(ctx, rec)}
	}
}

func registerErrorText(err error) string {
	if errors.Is(err, models.ErrValidationFailed) {
		return "Name, address and contact are required"
	}
	return "Could not save the supplier, try again"
}

func (m registerModel) View() string {
	form := m.flow.Form()
	var b strings.Builder

	row := func(label string, f registerField, in textinput.Model) {
		prefix := "  "
		if m.focused == f {
			prefix = selectionStyle.Render("> ")
		}
		b.WriteString(prefix + labelStyle.Render(label) + in.View() + "\n")
	}
	row("Name", fieldName, m.name)
	row("Address", fieldAddress, m.address)
	row("Contact", fieldContact, m.contact)

	prefix := "  "
	if m.focused == fieldCategories {
		prefix = selectionStyle.Render("> ")
	}
	chips := make([]string, len(m.categories))
	for i, c := range m.categories {
		style := chipStyle
		if form.Categories.Contains(c.ID) {
			style = activeChipStyle
		} else if m.focused == fieldCategories && i == m.chip {
			style = focusedChipStyle
		}
		label := c.Name
		if m.focused == fieldCategories && i == m.chip {
			label = "[" + label + "]"
		}
		chips[i] = style.Render(label)
	}
	b.WriteString(prefix + labelStyle.Render("Categories") + lipgloss.JoinHorizontal(lipgloss.Top, chips...) + "\n")

	row("Photo", fieldPhoto, m.photo)
	if form.ImageURI != nil {
		b.WriteString("  " + labelStyle.Render("") + mutedStyle.Render("attached: "+*form.ImageURI) + "\n")
	}

	b.WriteString("\n  ")
	if m.focused == fieldSubmit {
		b.WriteString(buttonFocusedStyle.Render("Register"))
	} else {
		b.WriteString(buttonStyle.Render("Register"))
	}
	b.WriteString("\n")

	if m.busy {
		b.WriteString("\n" + mutedStyle.Render("Saving..."))
	} else if m.status != "" {
		b.WriteString("\n" + renderStatus(m.status, m.statusErr))
	}
	return b.String()
}
