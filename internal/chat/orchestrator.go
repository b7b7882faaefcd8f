// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

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

// Gateway is the subset of the backend client used for chat.
type Gateway interface {
	Chat(ctx context.Context, projectID int, message string) (*model.ChatReply, error)
	ChatHistory(ctx context.Context, projectID int) ([]model.Message, error)
	ClearChatHistory(ctx context.Context, projectID int) (*model.StatusMessage, error)
}

// JournalSink receives the journal regenerated by a chat turn.
type JournalSink interface {
	SetJournal(ticket session.Ticket, content string) bool
}

// Config holds configuration for the chat orchestrator.
type Config struct {
	// Timeout for a chat turn (default: 120s). Replies wait on an LLM.
	Timeout time.Duration

	// HistoryTimeout for history loads (default: 30s)
	HistoryTimeout time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        120 * time.Second,
		HistoryTimeout: 30 * time.Second,
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg carries the outcome of a chat turn.
type ReplyMsg struct {
	Ticket session.Ticket
	EchoID string
	Reply  *model.ChatReply
	Err    error
}

// HistoryMsg carries a loaded transcript.
type HistoryMsg struct {
	Ticket   session.Ticket
	Seq      uint64
	Messages []model.Message
	Err      error
}

// ClearedMsg reports the outcome of clearing the transcript.
type ClearedMsg struct {
	Ticket session.Ticket
	Result *model.StatusMessage
	Err    error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator drives the chat of the active project. It is driven from the
// event loop and is not safe for concurrent use.
type Orchestrator struct {
	gw      Gateway
	sess    *session.Manager
	journal JournalSink
	cfg     Config
	logger  *zap.Logger

	transcript []model.Message
	sending    bool
	echoID     string
	historySeq uint64
}

// New creates a chat orchestrator. journal may be nil.
func New(gw Gateway, sess *session.Manager, journal JournalSink, cfg Config) *Orchestrator {
	defaults := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.HistoryTimeout == 0 {
		cfg.HistoryTimeout = defaults.HistoryTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Orchestrator{
		gw:      gw,
		sess:    sess,
		journal: journal,
		cfg:     cfg,
		logger:  cfg.Logger.Named("chat"),
	}
}

// Transcript returns a copy of the displayed transcript.
func (o *Orchestrator) Transcript() []model.Message {
	out := make([]model.Message, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// Sending reports whether a chat turn is in flight. The send control is
// disabled while this is true.
func (o *Orchestrator) Sending() bool {
	return o.sending
}

// Reset clears the transcript and the in-flight flag. A reply for the turn
// that was in flight will be discarded as stale.
func (o *Orchestrator) Reset() {
	o.transcript = nil
	o.sending = false
	o.echoID = ""
	o.historySeq++
}

// =============================================================================
// COMMANDS
// =============================================================================

// Send starts a chat turn. It returns nil without contacting the backend
// when text is blank, no project is active, or a turn is already in flight.
func (o *Orchestrator) Send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || o.sending {
		return nil
	}
	ticket := o.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil
	}

	echo := model.NewUserMessage(text)
	o.transcript = append(o.transcript, echo)
	o.sending = true
	o.echoID = echo.ID

	gw, timeout := o.gw, o.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := gw.Chat(ctx, ticket.ProjectID, text)
		return ReplyMsg{Ticket: ticket, EchoID: echo.ID, Reply: reply, Err: err}
	}
}

// LoadHistory fetches the transcript of the active project.
func (o *Orchestrator) LoadHistory() tea.Cmd {
	ticket := o.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil
	}
	o.historySeq++
	seq := o.historySeq

	gw, timeout := o.gw, o.cfg.HistoryTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := gw.ChatHistory(ctx, ticket.ProjectID)
		return HistoryMsg{Ticket: ticket, Seq: seq, Messages: msgs, Err: err}
	}
}

// ClearHistory deletes the transcript of the active project. Callers gate
// this behind a confirmation.
func (o *Orchestrator) ClearHistory() tea.Cmd {
	ticket := o.sess.Ticket()
	if ticket.ProjectID == 0 {
		return nil
	}
	gw, timeout := o.gw, o.cfg.HistoryTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := gw.ClearChatHistory(ctx, ticket.ProjectID)
		return ClearedMsg{Ticket: ticket, Result: res, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies chat messages. Other messages are ignored.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReplyMsg:
		return o.applyReply(msg)

	case HistoryMsg:
		if !o.sess.IsCurrent(msg.Ticket) || msg.Seq != o.historySeq {
			o.logger.Debug("discarding stale history", zap.Int("project_id", msg.Ticket.ProjectID))
			return nil
		}
		if msg.Err != nil {
			return notify.Error("Failed to load chat history", msg.Err)
		}
		o.replaceTranscript(msg.Messages)

	case ClearedMsg:
		if msg.Err != nil {
			return notify.Error("Failed to clear chat history", msg.Err)
		}
		cmds := []tea.Cmd{notify.Info(msg.Result.Message)}
		if o.sess.IsCurrent(msg.Ticket) {
			o.replaceTranscript(nil)
			cmds = append(cmds, o.LoadHistory())
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (o *Orchestrator) applyReply(msg ReplyMsg) tea.Cmd {
	if !o.sess.IsCurrent(msg.Ticket) || msg.EchoID != o.echoID {
		o.logger.Debug("discarding stale chat reply", zap.Int("project_id", msg.Ticket.ProjectID))
		if msg.EchoID == o.echoID {
			o.sending = false
			o.echoID = ""
		}
		return nil
	}
	o.sending = false
	o.echoID = ""

	if msg.Err != nil {
		o.logger.Warn("chat turn failed", zap.Int("project_id", msg.Ticket.ProjectID), zap.Error(msg.Err))
		o.markEcho(msg.EchoID, true)
		o.transcript = append(o.transcript, model.NewAssistantMessage("Error: "+msg.Err.Error()))
		return nil
	}

	o.markEcho(msg.EchoID, false)
	o.transcript = append(o.transcript, model.NewAssistantMessage(msg.Reply.Response))
	if msg.Reply.JournalContent != nil && o.journal != nil {
		o.journal.SetJournal(msg.Ticket, *msg.Reply.JournalContent)
	}
	return nil
}

func (o *Orchestrator) markEcho(id string, failed bool) {
	for i := range o.transcript {
		if o.transcript[i].ID == id {
			o.transcript[i].Pending = false
			o.transcript[i].Failed = failed
			return
		}
	}
}

// replaceTranscript rebuilds the transcript from the backend's list. An echo
// whose turn is still in flight is not in that list yet, so it is kept at
// the end.
func (o *Orchestrator) replaceTranscript(msgs []model.Message) {
	var echo *model.Message
	if o.sending {
		for i := range o.transcript {
			if o.transcript[i].ID == o.echoID {
				e := o.transcript[i]
				echo = &e
			}
		}
	}

	o.transcript = make([]model.Message, 0, len(msgs)+1)
	o.transcript = append(o.transcript, msgs...)
	if echo != nil {
		o.transcript = append(o.transcript, *echo)
	}
}
