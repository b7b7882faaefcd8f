// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SPEAKERS
// =============================================================================

// SpeakerUser is the agent_type the backend records for user turns.
const SpeakerUser = "user"

// AssistantAgent is the agent type that answers chat turns.
const AssistantAgent = "Project Assistant"

// Role is the display role of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is one chat transcript entry.
//
// AgentType and Content come from the backend. The remaining fields are
// client-side bookkeeping and are never sent.
type Message struct {
	AgentType string `json:"agent_type"`
	Content   string `json:"content"`

	ID        string    `json:"-"`
	Timestamp time.Time `json:"-"`

	// Pending marks an optimistic echo that the backend has not acknowledged.
	Pending bool `json:"-"`

	// Failed marks an echo whose chat turn was rejected.
	Failed bool `json:"-"`
}

// NewUserMessage creates an optimistic echo of a user's chat input.
func NewUserMessage(content string) Message {
	return Message{
		AgentType: SpeakerUser,
		Content:   content,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Pending:   true,
	}
}

// NewAssistantMessage creates an assistant transcript entry.
func NewAssistantMessage(content string) Message {
	return Message{
		AgentType: AssistantAgent,
		Content:   content,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// Role maps the speaker to a display role. Anything that is not the user
// is rendered as an assistant.
func (m Message) Role() Role {
	if m.AgentType == SpeakerUser {
		return RoleUser
	}
	return RoleAssistant
}

// IsUser reports whether the user authored the message.
func (m Message) IsUser() bool {
	return m.AgentType == SpeakerUser
}

// =============================================================================
// CHAT TURN
// =============================================================================

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	ProjectID int    `json:"project_id"`
	Message   string `json:"message"`
}

// ChatReply is the result of a chat turn. JournalContent is nil when the
// backend did not regenerate the journal.
type ChatReply struct {
	Response       string  `json:"response"`
	JournalContent *string `json:"journal_content"`
	Error          string  `json:"error,omitempty"`
}
