// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// VIEWS
// =============================================================================

// View is one of the mutually exclusive top-level views.
type View int

const (
	ViewProjects View = iota
	ViewProject
	ViewSettings
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewProjects:
		return "projects"
	case ViewProject:
		return "project"
	case ViewSettings:
		return "settings"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Region is a displayable area of the interface.
type Region int

const (
	RegionProjectList Region = iota
	RegionChat
	RegionDocuments
	RegionSettings
)

// =============================================================================
// TICKETS AND TRANSITIONS
// =============================================================================

// Ticket identifies the session state a request was issued under.
type Ticket struct {
	Generation uint64
	ProjectID  int
}

// Transition describes a completed state change.
type Transition struct {
	From      View
	To        View
	ProjectID int
	// PrevProjectID is the project that was active before the change, or 0.
	PrevProjectID int
	Ticket        Ticket
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the session state machine.
type Manager struct {
	mu sync.Mutex

	sessionID   string
	startTime   time.Time
	view        View
	projectID   int
	projectName string
	generation  uint64

	onTransition func(Transition)
}

// NewManager creates a manager in ViewProjects with no active project.
func NewManager() *Manager {
	return &Manager{
		sessionID: "sess_" + uuid.NewString(),
		startTime: time.Now(),
		view:      ViewProjects,
	}
}

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// View returns the visible view.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// ActiveProject returns the active project id, or 0 when none is active.
func (m *Manager) ActiveProject() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projectID
}

// HasActiveProject reports whether a project is active.
func (m *Manager) HasActiveProject() bool {
	return m.ActiveProject() != 0
}

// ProjectName returns the displayed name of the active project.
func (m *Manager) ProjectName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projectName
}

// Generation returns the current generation number.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Visible reports whether a region is shown in the current view.
func (m *Manager) Visible(r Region) bool {
	switch m.View() {
	case ViewProjects:
		return r == RegionProjectList
	case ViewProject:
		return r == RegionChat || r == RegionDocuments
	case ViewSettings:
		return r == RegionSettings
	}
	return false
}

// SetTransitionCallback registers fn to run after every transition.
// fn runs outside the manager lock.
func (m *Manager) SetTransitionCallback(fn func(Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// SelectProject activates a project from any state.
func (m *Manager) SelectProject(id int) Transition {
	return m.transition(ViewProject, id, true)
}

// ContinueProject is SelectProject for a project chosen from the list.
func (m *Manager) ContinueProject(id int) Transition {
	return m.SelectProject(id)
}

// NavProjects returns to the project list and clears the active project.
func (m *Manager) NavProjects() Transition {
	return m.transition(ViewProjects, 0, true)
}

// NavSettings shows the settings view. The active project is kept so it can
// be resumed, but outstanding project responses become stale.
func (m *Manager) NavSettings() Transition {
	return m.transition(ViewSettings, 0, false)
}

// transition is the single writer of view and active project.
func (m *Manager) transition(to View, projectID int, setProject bool) Transition {
	m.mu.Lock()
	tr := Transition{From: m.view, To: to, PrevProjectID: m.projectID}
	if setProject {
		if projectID != m.projectID {
			m.projectName = ""
		}
		m.projectID = projectID
	}
	m.view = to
	m.generation++
	tr.ProjectID = m.projectID
	tr.Ticket = Ticket{Generation: m.generation, ProjectID: m.projectID}
	fn := m.onTransition
	m.mu.Unlock()

	// Execute callback outside lock
	if fn != nil {
		fn(tr)
	}
	return tr
}

// SetProjectName records the displayed name if ticket is still current.
func (m *Manager) SetProjectName(ticket Ticket, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isCurrentLocked(ticket) {
		return false
	}
	m.projectName = name
	return true
}

// =============================================================================
// STALE DETECTION
// =============================================================================

// Ticket captures the current state for tagging a request.
func (m *Manager) Ticket() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Ticket{Generation: m.generation, ProjectID: m.projectID}
}

// IsCurrent reports whether no transition happened since ticket was taken.
func (m *Manager) IsCurrent(ticket Ticket) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isCurrentLocked(ticket)
}

func (m *Manager) isCurrentLocked(ticket Ticket) bool {
	return ticket.Generation == m.generation && ticket.ProjectID == m.projectID
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a snapshot of the session for display.
type Status struct {
	SessionID   string
	View        View
	ProjectID   int
	ProjectName string
	Generation  uint64
	Duration    time.Duration
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		SessionID:   m.sessionID,
		View:        m.view,
		ProjectID:   m.projectID,
		ProjectName: m.projectName,
		Generation:  m.generation,
		Duration:    time.Since(m.startTime),
	}
}
