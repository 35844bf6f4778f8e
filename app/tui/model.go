// Package tui is the terminal front end: a register tab and a suppliers tab.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veo1/supplier-registry/app/listing"
	"github.com/veo1/supplier-registry/app/registration"
)

type Tab int

const (
	TabRegister Tab = iota
	TabSuppliers
)

func (t Tab) String() string {
	if t == TabSuppliers {
		return "Suppliers"
	}
	return "Register"
}

// Model is the root Bubble Tea model.
type Model struct {
	tab       Tab
	register  registerModel
	suppliers suppliersModel
	width     int
	height    int
}

func New(ctx context.Context, flow *registration.Flow, session *listing.Session, photos PhotoStore) Model {
	return Model{
		tab:       TabRegister,
		register:  newRegisterModel(ctx, flow, photos),
		suppliers: newSuppliersModel(ctx, session, photos),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			return m.switchTab()
		}

	case supplierRegisteredMsg, photoImportedMsg:
		m.register, cmd = m.register.Update(msg)
		return m, cmd

	case suppliersLoadedMsg, supplierSavedMsg, supplierDeletedMsg:
		m.suppliers, cmd = m.suppliers.Update(msg)
		return m, cmd
	}

	if m.tab == TabSuppliers {
		m.suppliers, cmd = m.suppliers.Update(msg)
	} else {
		m.register, cmd = m.register.Update(msg)
	}
	return m, cmd
}

// switchTab toggles tabs. Entering the suppliers tab reloads the list.
func (m Model) switchTab() (Model, tea.Cmd) {
	if m.tab == TabRegister {
		m.tab = TabSuppliers
		var cmd tea.Cmd
		m.suppliers, cmd = m.suppliers.reload()
		return m, cmd
	}
	m.tab = TabRegister
	return m, nil
}

func (m Model) View() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{TabRegister, TabSuppliers} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
	if m.tab == TabSuppliers {
		b.WriteString(m.suppliers.View())
	} else {
		b.WriteString(m.register.View())
	}
	b.WriteString("\n\n" + mutedStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.tab == TabRegister {
		return "tab/shift+tab move · space toggle category · enter select · ctrl+t suppliers · ctrl+c quit"
	}
	return "/ search · c category · x clear · enter open · e edit · d delete · esc back · r reload · ctrl+t register · ctrl+c quit"
}
