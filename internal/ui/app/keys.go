// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the interface.
type KeyMap struct {
	// Navigation between the top-level views
	Projects key.Binding
	Project  key.Binding
	Settings key.Binding
	Quit     key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Reload key.Binding
	Like   key.Binding
	Rate   key.Binding

	// Project view
	Send       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Focus      key.Binding
	RefreshTab key.Binding
	EditDoc    key.Binding
	AddDoc     key.Binding
	ClearChat  key.Binding

	// Settings view
	Section  key.Binding
	Backup   key.Binding
	Restore  key.Binding
	ApplyAll key.Binding

	// Forms and prompts
	Submit  key.Binding
	Cancel  key.Binding
	NextFld key.Binding
	PrevFld key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Projects: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "projects")),
		Project:  key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "project")),
		Settings: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "settings")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("C-q", "quit")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "open")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Like:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		Rate:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),

		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
		NextTab:    key.NewBinding(key.WithKeys("ctrl+right", "alt+]"), key.WithHelp("C-right", "next doc")),
		PrevTab:    key.NewBinding(key.WithKeys("ctrl+left", "alt+["), key.WithHelp("C-left", "prev doc")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "chat/docs")),
		RefreshTab: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("C-r", "refresh doc")),
		EditDoc:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("C-e", "edit doc")),
		AddDoc:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "add doc")),
		ClearChat:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("C-l", "clear chat")),

		Section:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "section")),
		Backup:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "backup")),
		Restore:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restore latest")),
		ApplyAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply model to all")),

		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),
		NextFld: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "next field")),
		PrevFld: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-Tab", "prev field")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// projectsHelp is shown under the project list.
func (k KeyMap) projectsHelp() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Edit, k.Delete, k.Like, k.Rate, k.Reload, k.Settings, k.Quit}
}

func (k KeyMap) projectHelp() []key.Binding {
	return []key.Binding{k.Send, k.Focus, k.PrevTab, k.NextTab, k.RefreshTab, k.EditDoc, k.AddDoc, k.ClearChat, k.Projects, k.Settings}
}

func (k KeyMap) settingsHelp() []key.Binding {
	return []key.Binding{k.Section, k.New, k.Edit, k.Delete, k.ApplyAll, k.Backup, k.Restore, k.Projects, k.Project}
}

func (k KeyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextFld, k.PrevFld, k.Submit, k.Cancel}
}
