// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/util"
)

// selectedProject returns the project under the cursor.
func (m *Model) selectedProject() (model.Project, bool) {
	projects := m.app.Caches.Projects
	if m.projectCursor >= projects.Len() {
		m.projectCursor = projects.Len() - 1
	}
	if m.projectCursor < 0 {
		m.projectCursor = 0
	}
	return projects.At(m.projectCursor)
}

func (m *Model) handleProjectsKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		if m.projectCursor > 0 {
			m.projectCursor--
		}
		return nil
	case key.Matches(msg, k.Down):
		if m.projectCursor < m.app.Caches.Projects.Len()-1 {
			m.projectCursor++
		}
		return nil
	case key.Matches(msg, k.Reload):
		return m.app.Editor.ReloadProjects()
	case key.Matches(msg, k.New):
		return m.openForm(newForm(formProject, "New project").
			addField(fieldName, "Name", "", "My project").
			addField(fieldDescription, "Description", "", "optional"))
	}

	p, ok := m.selectedProject()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, k.Open):
		return m.app.OpenProject(p.ID)
	case key.Matches(msg, k.Edit):
		f := newForm(formProject, "Edit project").
			addField(fieldName, "Name", p.Name, "").
			addField(fieldDescription, "Description", p.Description, "")
		f.id = p.ID
		return m.openForm(f)
	case key.Matches(msg, k.Delete):
		if err := m.app.Editor.RequestDeleteProject(p.ID); err != nil {
			return fail("Cannot delete project", err)
		}
	case key.Matches(msg, k.Like):
		return m.app.Editor.LikeProject(p.ID)
	case key.Matches(msg, k.Rate):
		cmd, err := m.app.Editor.RateProject(p.ID, int(msg.String()[0]-'0'))
		if err != nil {
			return fail("Cannot rate project", err)
		}
		return cmd
	}
	return nil
}

func (m *Model) viewProjects() string {
	t := m.theme
	projects := m.app.Caches.Projects.Items()
	if len(projects) == 0 {
		if !m.app.Caches.Projects.Loaded() {
			return t.MutedStyle.Render(m.spinner.View() + " Loading projects...")
		}
		return t.MutedStyle.Render("No projects yet. Press n to create one.")
	}

	var b strings.Builder
	b.WriteString(t.SectionTitle.Render("Projects"))
	b.WriteString("\n")
	nameWidth := m.width / 3
	for i, p := range projects {
		line := util.PadRight(util.Truncate(p.Name, nameWidth), nameWidth) + "  " +
			t.ListMeta.Render(projectMeta(p)) + "  " +
			util.Preview(p.Description, m.width-nameWidth-30)
		style := t.ListItem
		if i == m.projectCursor {
			style = t.ListItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func projectMeta(p model.Project) string {
	return fmt.Sprintf("#%-4d %.1f* %3d likes", p.ID, p.AverageRating, p.LikesCount)
}
