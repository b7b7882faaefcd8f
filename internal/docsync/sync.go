// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docsync

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/session"
)

// Gateway is the subset of the backend client used for documents.
type Gateway interface {
	GetDocument(ctx context.Context, projectID int, kind model.DocKind) (model.DocContent, error)
	SaveDocument(ctx context.Context, projectID int, kind model.DocKind, in model.SaveDocInput) (*model.StatusMessage, error)
	ListDocuments(ctx context.Context, projectID int) ([]model.Document, error)
	CreateDocument(ctx context.Context, projectID int, in model.DocumentInput) (*model.Document, error)
}

// Config holds configuration for document sync.
type Config struct {
	// Timeout per fetch (default: 30s)
	Timeout time.Duration
	Logger  *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// =============================================================================
// MESSAGES
// =============================================================================

// DocumentMsg carries one fetched document kind.
type DocumentMsg struct {
	Ticket session.Ticket
	Kind   model.DocKind
	Seq    uint64
	Doc    model.DocContent
	Err    error
}

// UserDocsMsg carries the user-authored document list.
type UserDocsMsg struct {
	Ticket session.Ticket
	Seq    uint64
	Docs   []model.Document
	Err    error
}

// SavedMsg reports the outcome of saving a generated document.
type SavedMsg struct {
	Ticket session.Ticket
	Kind   model.DocKind
	Result *model.StatusMessage
	Err    error
}

// DocumentAddedMsg reports the outcome of adding a user document.
type DocumentAddedMsg struct {
	Ticket session.Ticket
	Doc    *model.Document
	Err    error
}

// =============================================================================
// SYNC
// =============================================================================

// Sync owns the document tabs of the active project. It is driven from the
// event loop and is not safe for concurrent use.
type Sync struct {
	gw      Gateway
	sess    *session.Manager
	timeout time.Duration
	logger  *zap.Logger

	tabs   []Tab
	active int

	userDocs    []model.Document
	userDocsSeq uint64
}

// New creates document sync bound to the session.
func New(gw Gateway, sess *session.Manager, cfg Config) *Sync {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Sync{
		gw:      gw,
		sess:    sess,
		timeout: cfg.Timeout,
		logger:  cfg.Logger.Named("docsync"),
		tabs:    newTabs(),
	}
}

// Tabs returns every tab in order.
func (s *Sync) Tabs() []Tab {
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Tab returns the tab of one kind.
func (s *Sync) Tab(kind model.DocKind) Tab {
	if i := kind.Index(); i >= 0 {
		return s.tabs[i]
	}
	return Tab{Kind: kind}
}

// UserDocuments returns the user-authored documents of the active project.
func (s *Sync) UserDocuments() []model.Document {
	out := make([]model.Document, len(s.userDocs))
	copy(out, s.userDocs)
	return out
}

// Reset clears every tab. Sequence numbers keep counting so fetches issued
// before the reset stay superseded.
func (s *Sync) Reset() {
	for i := range s.tabs {
		seq := s.tabs[i].seq + 1
		s.tabs[i] = Tab{Kind: s.tabs[i].Kind, Content: model.DocContent{Kind: s.tabs[i].Kind}, seq: seq}
	}
	s.userDocs = nil
	s.userDocsSeq++
}

// =============================================================================
// TAB SELECTION
// =============================================================================

// ActiveTab returns the visible tab.
func (s *Sync) ActiveTab() Tab {
	return s.tabs[s.active]
}

// SelectTab shows the tab of kind. It never fetches.
func (s *Sync) SelectTab(kind model.DocKind) bool {
	i := kind.Index()
	if i < 0 {
		return false
	}
	s.active = i
	return true
}

// NextTab moves to the following tab, wrapping around.
func (s *Sync) NextTab() {
	s.active = (s.active + 1) % len(s.tabs)
}

// PrevTab moves to the preceding tab, wrapping around.
func (s *Sync) PrevTab() {
	s.active = (s.active - 1 + len(s.tabs)) % len(s.tabs)
}

// =============================================================================
// FETCHING
// =============================================================================

// Activate resets every tab to loading and fetches all kinds for the active
// project, plus the user document list.
func (s *Sync) Activate() tea.Cmd {
	ticket := s.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(s.tabs)+1)
	for _, tab := range s.tabs {
		cmds = append(cmds, s.fetch(ticket, tab.Kind))
	}
	cmds = append(cmds, s.fetchUserDocs(ticket))
	return tea.Batch(cmds...)
}

// RefreshTab refetches one kind.
func (s *Sync) RefreshTab(kind model.DocKind) tea.Cmd {
	ticket := s.sess.Ticket()
	if ticket.ProjectID == 0 || kind.Index() < 0 {
		return nil
	}
	return s.fetch(ticket, kind)
}

func (s *Sync) fetch(ticket session.Ticket, kind model.DocKind) tea.Cmd {
	tab := &s.tabs[kind.Index()]
	tab.seq++
	tab.State = TabLoading
	tab.Err = nil
	seq := tab.seq

	gw, timeout := s.gw, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		doc, err := gw.GetDocument(ctx, ticket.ProjectID, kind)
		return DocumentMsg{Ticket: ticket, Kind: kind, Seq: seq, Doc: doc, Err: err}
	}
}

func (s *Sync) fetchUserDocs(ticket session.Ticket) tea.Cmd {
	s.userDocsSeq++
	seq := s.userDocsSeq

	gw, timeout := s.gw, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		docs, err := gw.ListDocuments(ctx, ticket.ProjectID)
		return UserDocsMsg{Ticket: ticket, Seq: seq, Docs: docs, Err: err}
	}
}

// SetJournal replaces the journal with content returned by a chat turn.
// Any journal fetch still outstanding is superseded.
func (s *Sync) SetJournal(ticket session.Ticket, content string) bool {
	if !s.sess.IsCurrent(ticket) {
		return false
	}
	tab := &s.tabs[model.DocJournal.Index()]
	tab.seq++
	tab.State = TabLoaded
	tab.Err = nil
	tab.Content = model.DocContent{Kind: model.DocJournal, Body: content}
	return true
}

// =============================================================================
// EDITING
// =============================================================================

// SaveDocument stores content for an editable kind of the active project.
func (s *Sync) SaveDocument(kind model.DocKind, component, content string) (tea.Cmd, error) {
	ticket := s.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil, model.Invalid("project", "no project selected")
	}
	if !kind.Editable() {
		return nil, model.Invalid("kind", "%s cannot be edited", kind.Label())
	}
	if err := model.Require("content", content); err != nil {
		return nil, err
	}
	component = strings.TrimSpace(component)
	if kind.MultiComponent() && component == "" {
		return nil, model.Invalid("component_name", "is required for %s", kind.Label())
	}

	in := model.SaveDocInput{Content: content, ComponentName: component}
	gw, timeout := s.gw, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := gw.SaveDocument(ctx, ticket.ProjectID, kind, in)
		return SavedMsg{Ticket: ticket, Kind: kind, Result: res, Err: err}
	}, nil
}

// AddDocument appends a user-authored document to the active project.
func (s *Sync) AddDocument(docType, content string) (tea.Cmd, error) {
	ticket := s.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil, model.Invalid("project", "no project selected")
	}
	if err := model.Require("doc_type", docType); err != nil {
		return nil, err
	}
	if err := model.Require("content", content); err != nil {
		return nil, err
	}

	in := model.DocumentInput{DocType: strings.TrimSpace(docType), Content: content}
	gw, timeout := s.gw, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		doc, err := gw.CreateDocument(ctx, ticket.ProjectID, in)
		return DocumentAddedMsg{Ticket: ticket, Doc: doc, Err: err}
	}, nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies document messages. Other messages are ignored.
func (s *Sync) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DocumentMsg:
		s.applyDocument(msg)

	case UserDocsMsg:
		if !s.sess.IsCurrent(msg.Ticket) || msg.Seq != s.userDocsSeq {
			s.logger.Debug("discarding stale document list", zap.Int("project_id", msg.Ticket.ProjectID))
			return nil
		}
		if msg.Err != nil {
			return notify.Error("Failed to load documents", msg.Err)
		}
		s.userDocs = append([]model.Document(nil), msg.Docs...)

	case SavedMsg:
		if msg.Err != nil {
			return notify.Error("Failed to save "+msg.Kind.Label(), msg.Err)
		}
		cmds := []tea.Cmd{notify.Info(msg.Result.Message)}
		if s.sess.IsCurrent(msg.Ticket) {
			cmds = append(cmds, s.RefreshTab(msg.Kind))
		}
		return tea.Batch(cmds...)

	case DocumentAddedMsg:
		if msg.Err != nil {
			return notify.Error("Failed to add document", msg.Err)
		}
		cmds := []tea.Cmd{notify.Info("Document added")}
		if s.sess.IsCurrent(msg.Ticket) {
			cmds = append(cmds, s.fetchUserDocs(msg.Ticket))
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (s *Sync) applyDocument(msg DocumentMsg) {
	i := msg.Kind.Index()
	if i < 0 {
		return
	}
	if !s.sess.IsCurrent(msg.Ticket) {
		s.logger.Debug("discarding stale document",
			zap.String("kind", string(msg.Kind)),
			zap.Int("project_id", msg.Ticket.ProjectID))
		return
	}
	tab := &s.tabs[i]
	if msg.Seq != tab.seq {
		s.logger.Debug("discarding superseded document",
			zap.String("kind", string(msg.Kind)),
			zap.Uint64("seq", msg.Seq),
			zap.Uint64("latest", tab.seq))
		return
	}
	if msg.Err != nil {
		tab.State = TabFailed
		tab.Err = msg.Err
		s.logger.Warn("document fetch failed", zap.String("kind", string(msg.Kind)), zap.Error(msg.Err))
		return
	}
	tab.State = TabLoaded
	tab.Err = nil
	tab.Content = msg.Doc
}
