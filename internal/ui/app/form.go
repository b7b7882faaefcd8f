// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/ui/styles"
)

// formKind names what a submitted form does.
type formKind int

const (
	formProject formKind = iota
	formProvider
	formAgent
	formApplyAll
	formDocument
	formAddDocument
)

// Field keys shared by the form builders and submit handlers.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldURL         = "api_url"
	fieldKey         = "api_key"
	fieldAgentType   = "agent_type"
	fieldProvider    = "provider_id"
	fieldModel       = "model_name"
	fieldPrompt      = "system_prompt"
	fieldTemperature = "temperature"
	fieldComponent   = "component"
	fieldDocType     = "document_type"
	fieldContent     = "content"
)

type formField struct {
	key   string
	label string
	input textinput.Model
	area  *textarea.Model
}

func (f *formField) value() string {
	if f.area != nil {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.area != nil {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
}

// form is a modal list of inputs. At most one form is open at a time.
type form struct {
	kind    formKind
	title   string
	id      int
	docKind model.DocKind
	fields  []formField
	focus   int

	// loading is set while the entity is fetched for editing; the fields
	// are filled when it arrives.
	loading bool
}

func newForm(kind formKind, title string) *form {
	return &form{kind: kind, title: title}
}

func (f *form) addField(key, label, value, placeholder string) *form {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 4096
	in.Cursor.SetMode(cursor.CursorStatic)
	in.SetValue(value)
	f.fields = append(f.fields, formField{key: key, label: label, input: in})
	return f
}

func (f *form) addSecret(key, label, placeholder string) *form {
	f.addField(key, label, "", placeholder)
	f.fields[len(f.fields)-1].input.EchoMode = textinput.EchoPassword
	return f
}

func (f *form) addArea(key, label, value string) *form {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetHeight(8)
	ta.SetValue(value)
	f.fields = append(f.fields, formField{key: key, label: label, area: &ta})
	return f
}

func (f *form) field(key string) *formField {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

// value returns the raw text of a field, or "" when the form has none.
func (f *form) value(key string) string {
	if fld := f.field(key); fld != nil {
		return fld.value()
	}
	return ""
}

func (f *form) set(key, value string) {
	if fld := f.field(key); fld != nil {
		fld.setValue(value)
	}
}

func (f *form) focused() string {
	if f.focus < len(f.fields) {
		return f.fields[f.focus].key
	}
	return ""
}

// start focuses the first field.
func (f *form) start() tea.Cmd {
	return f.focusField(0)
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if f.fields[j].area != nil {
			f.fields[j].area.Blur()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
	if f.fields[i].area != nil {
		return f.fields[i].area.Focus()
	}
	return f.fields[i].input.Focus()
}

func (f *form) next() tea.Cmd { return f.focusField(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.focusField(f.focus - 1) }

// update forwards input to the focused field.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	fld := &f.fields[f.focus]
	var cmd tea.Cmd
	if fld.area != nil {
		*fld.area, cmd = fld.area.Update(msg)
	} else {
		fld.input, cmd = fld.input.Update(msg)
	}
	return cmd
}

func (f *form) setWidth(width int) {
	w := width - 20
	if w < 20 {
		w = 20
	}
	for i := range f.fields {
		if f.fields[i].area != nil {
			f.fields[i].area.SetWidth(w)
		} else {
			f.fields[i].input.Width = w
		}
	}
}

func (f *form) view(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.SectionTitle.Render(f.title))
	b.WriteString("\n")
	if f.loading {
		b.WriteString(theme.MutedStyle.Render("Loading..."))
		return b.String()
	}
	for i := range f.fields {
		fld := &f.fields[i]
		label := theme.FormLabel
		if i == f.focus {
			label = theme.FormLabelFocused
		}
		var input string
		if fld.area != nil {
			input = fld.area.View()
		} else {
			input = fld.input.View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fld.label), input))
		b.WriteString("\n")
	}
	return b.String()
}
