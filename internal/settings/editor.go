// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/cache"
	"github.com/jeranaias/projectmate/internal/confirm"
	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/session"
)

// Gateway is the subset of the backend client used by the editors.
type Gateway interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id int, in model.ProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, id int) error
	RateProject(ctx context.Context, id, rating int) (*model.RatingResult, error)
	LikeProject(ctx context.Context, id int, userID string) (*model.LikeResult, error)

	ListProviders(ctx context.Context) ([]model.Provider, error)
	GetProvider(ctx context.Context, id int) (*model.ProviderDetail, error)
	CreateProvider(ctx context.Context, in model.ProviderInput) (*model.Provider, error)
	UpdateProvider(ctx context.Context, id int, in model.ProviderInput) (*model.Provider, error)
	DeleteProvider(ctx context.Context, id int) error

	ListAgentConfigs(ctx context.Context) ([]model.AgentConfig, error)
	GetAgentConfig(ctx context.Context, id int) (*model.AgentConfig, error)
	CreateAgentConfig(ctx context.Context, in model.AgentConfigInput) (*model.AgentConfig, error)
	UpdateAgentConfig(ctx context.Context, id int, in model.AgentConfigInput) (*model.AgentConfig, error)
	DeleteAgentConfig(ctx context.Context, id int) error
	ApplyModelToAll(ctx context.Context, in model.ApplyModelInput) (*model.StatusMessage, error)
	AgentTypes(ctx context.Context) ([]string, error)
	DefaultSystemPrompt(ctx context.Context, agentType string) (string, error)

	Backup(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, snapshot []byte) (*model.StatusMessage, error)
}

// BackupWriter persists a backup snapshot and returns where it went.
type BackupWriter interface {
	Save(data []byte) (string, error)
}

// Config holds configuration for the editors.
type Config struct {
	// Timeout per request (default: 30s)
	Timeout time.Duration

	// UserID identifies this client when liking projects.
	UserID string

	// Backups receives backup snapshots. Backup fails when nil.
	Backups BackupWriter

	Logger *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		UserID:  "projectmate",
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// ProjectsMsg carries a reloaded project list.
type ProjectsMsg struct {
	Seq      uint64
	Projects []model.Project
	Err      error
}

// ProvidersMsg carries a reloaded provider list.
type ProvidersMsg struct {
	Seq       uint64
	Providers []model.Provider
	Err       error
}

// AgentConfigsMsg carries a reloaded agent config list.
type AgentConfigsMsg struct {
	Seq     uint64
	Configs []model.AgentConfig
	Err     error
}

// AgentTypesMsg carries the agent type enumeration.
type AgentTypesMsg struct {
	Seq   uint64
	Types []string
	Err   error
}

// Entity names what a mutation touched.
type Entity int

const (
	EntityProject Entity = iota
	EntityProvider
	EntityAgentConfig
)

func (e Entity) String() string {
	switch e {
	case EntityProject:
		return "project"
	case EntityProvider:
		return "provider"
	case EntityAgentConfig:
		return "agent config"
	default:
		return "unknown"
	}
}

// Action names what a mutation did.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionRated   Action = "rated"
	ActionLiked   Action = "liked"
	ActionApplied Action = "applied"
)

// MutatedMsg reports the outcome of a create, update or delete.
type MutatedMsg struct {
	Entity Entity
	Action Action
	ID     int

	// Text is the backend's message, when it returned one.
	Text string
	Err  error
}

// ProjectClosedMsg reports that the active project was deleted. The owner of
// the session leaves the project view when it sees it.
type ProjectClosedMsg struct {
	ID int
}

// =============================================================================
// EDITOR
// =============================================================================

// Editor owns the entity caches and every settings form. It is driven from
// the event loop.
type Editor struct {
	gw      Gateway
	caches  *cache.Caches
	sess    *session.Manager
	cfg     Config
	logger  *zap.Logger
	confirm *confirm.Gate

	providerForm ProviderForm
	agentForm    AgentForm
}

// New creates an editor over caches. sess may be nil; when set, deleting the
// active project returns the session to the project list.
func New(gw Gateway, caches *cache.Caches, sess *session.Manager, cfg Config) *Editor {
	defaults := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserID == "" {
		cfg.UserID = defaults.UserID
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Editor{
		gw:        gw,
		caches:    caches,
		sess:      sess,
		cfg:       cfg,
		logger:    cfg.Logger.Named("settings"),
		confirm:   &confirm.Gate{},
		agentForm: NewAgentForm(),
	}
}

// Caches returns the caches the editor maintains.
func (e *Editor) Caches() *cache.Caches {
	return e.caches
}

// Gate returns the confirmation gate that holds pending deletions. Other
// destructive actions may share it.
func (e *Editor) Gate() *confirm.Gate {
	return e.confirm
}

// run wraps a gateway call in a command with the editor's timeout.
func (e *Editor) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := e.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

// =============================================================================
// RELOADS
// =============================================================================

// ReloadProjects refetches the project list.
func (e *Editor) ReloadProjects() tea.Cmd {
	seq := e.caches.Projects.Begin()
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		items, err := gw.ListProjects(ctx)
		return ProjectsMsg{Seq: seq, Projects: items, Err: err}
	})
}

// ReloadProviders refetches the provider list.
func (e *Editor) ReloadProviders() tea.Cmd {
	seq := e.caches.Providers.Begin()
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		items, err := gw.ListProviders(ctx)
		return ProvidersMsg{Seq: seq, Providers: items, Err: err}
	})
}

// ReloadAgentConfigs refetches the agent config list.
func (e *Editor) ReloadAgentConfigs() tea.Cmd {
	seq := e.caches.AgentConfigs.Begin()
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		items, err := gw.ListAgentConfigs(ctx)
		return AgentConfigsMsg{Seq: seq, Configs: items, Err: err}
	})
}

// ReloadAgentTypes refetches the agent type enumeration.
func (e *Editor) ReloadAgentTypes() tea.Cmd {
	seq := e.caches.AgentTypes.Begin()
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		items, err := gw.AgentTypes(ctx)
		return AgentTypesMsg{Seq: seq, Types: items, Err: err}
	})
}

// ReloadSettings refetches everything the settings view shows.
func (e *Editor) ReloadSettings() tea.Cmd {
	return tea.Batch(e.ReloadProviders(), e.ReloadAgentConfigs(), e.ReloadAgentTypes())
}

// =============================================================================
// DELETION
// =============================================================================

// PendingDelete returns the prompt of the parked deletion.
func (e *Editor) PendingDelete() (string, bool) {
	return e.confirm.Pending()
}

// ConfirmDelete sends the parked deletion.
func (e *Editor) ConfirmDelete() tea.Cmd {
	return e.confirm.Confirm()
}

// CancelDelete drops the parked deletion without contacting the backend.
func (e *Editor) CancelDelete() {
	e.confirm.Cancel()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies settings messages. Other messages are ignored.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ProjectsMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load projects", msg.Err)
		}
		e.replaced("projects", e.caches.Projects.Replace(msg.Seq, msg.Projects), msg.Seq)

	case ProvidersMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load providers", msg.Err)
		}
		e.replaced("providers", e.caches.Providers.Replace(msg.Seq, msg.Providers), msg.Seq)

	case AgentConfigsMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load agent configs", msg.Err)
		}
		e.replaced("agent configs", e.caches.AgentConfigs.Replace(msg.Seq, msg.Configs), msg.Seq)

	case AgentTypesMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load agent types", msg.Err)
		}
		e.replaced("agent types", e.caches.AgentTypes.Replace(msg.Seq, msg.Types), msg.Seq)

	case MutatedMsg:
		return e.applyMutation(msg)

	case ProviderFormMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load provider", msg.Err)
		}
		e.providerForm = msg.Form

	case AgentFormMsg:
		if msg.Err != nil {
			return notify.Error("Failed to load agent config", msg.Err)
		}
		e.agentForm = msg.Form

	case PromptMsg:
		return e.applyPrompt(msg)

	case BackupMsg:
		if msg.Err != nil {
			return notify.Error("Backup failed", msg.Err)
		}
		return notify.Info("Backup saved to " + msg.Path)

	case RestoreMsg:
		if msg.Err != nil {
			return notify.Error("Restore failed", msg.Err)
		}
		return tea.Batch(notify.Info(msg.Result.Message), e.ReloadProviders(), e.ReloadAgentConfigs())
	}
	return nil
}

func (e *Editor) replaced(what string, ok bool, seq uint64) {
	if !ok {
		e.logger.Debug("discarding superseded reload", zap.String("list", what), zap.Uint64("seq", seq))
	}
}

func (e *Editor) applyMutation(msg MutatedMsg) tea.Cmd {
	if msg.Err != nil {
		e.logger.Warn("mutation failed",
			zap.Stringer("entity", msg.Entity),
			zap.String("action", string(msg.Action)),
			zap.Int("id", msg.ID),
			zap.Error(msg.Err))
		return notify.Error("Failed to "+verb(msg.Action)+" "+msg.Entity.String(), msg.Err)
	}

	text := msg.Text
	if text == "" {
		text = capitalize(msg.Entity.String()) + " " + string(msg.Action)
	}
	cmds := []tea.Cmd{notify.Info(text)}

	switch msg.Entity {
	case EntityProject:
		if msg.Action == ActionDeleted && e.sess != nil && e.sess.ActiveProject() == msg.ID {
			id := msg.ID
			cmds = append(cmds, func() tea.Msg { return ProjectClosedMsg{ID: id} })
		}
		cmds = append(cmds, e.ReloadProjects())
	case EntityProvider:
		if msg.Action != ActionDeleted {
			e.providerForm = ProviderForm{}
		}
		cmds = append(cmds, e.ReloadProviders())
	case EntityAgentConfig:
		if msg.Action == ActionCreated || msg.Action == ActionUpdated {
			e.agentForm = NewAgentForm()
		}
		cmds = append(cmds, e.ReloadAgentConfigs())
	}
	return tea.Batch(cmds...)
}

func verb(a Action) string {
	switch a {
	case ActionCreated:
		return "create"
	case ActionUpdated:
		return "update"
	case ActionDeleted:
		return "delete"
	case ActionRated:
		return "rate"
	case ActionLiked:
		return "like"
	case ActionApplied:
		return "apply model to"
	default:
		return string(a)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
