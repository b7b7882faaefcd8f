// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/projectmate/internal/api/apitest"
	"github.com/jeranaias/projectmate/internal/core"
	"github.com/jeranaias/projectmate/internal/model"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// jsonData decodes the data field of a --json response.
func (r result) jsonData(t *testing.T, v any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp), r.stdout)
	require.True(t, resp.Success, r.stdout)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")
	return home
}

func execute(t *testing.T, b *apitest.Backend, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(Options{
		Version: "test",
		Args:    append([]string{"--backend", b.URL()}, args...),
		In:      strings.NewReader(stdin),
		Out:     &out,
		Err:     &errOut,
	})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func newBackend(t *testing.T) *apitest.Backend {
	t.Helper()
	setHome(t)
	return apitest.New(t)
}

// =============================================================================
// PROJECTS
// =============================================================================

func TestProjectsList(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "first project")
	b.AddProject("Beta", "")

	r := execute(t, b, "", "projects", "list")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Alpha")
	assert.Contains(t, r.stdout, "first project")
	assert.Contains(t, r.stdout, "Beta")
}

func TestProjectsCreateJSON(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "--json", "projects", "create", "--name", "Gamma", "--description", "third")
	require.Equal(t, ExitSuccess, r.code, r.stdout)

	var data MutationData
	r.jsonData(t, &data)
	assert.Equal(t, "project", data.Entity)
	assert.Equal(t, "created", data.Action)
	assert.True(t, b.HasProject(data.ID))
}

func TestProjectsCreateRequiresName(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "projects", "create", "--name", "  ")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "name")
	assert.Zero(t, b.Count("POST /api/projects"))
}

func TestProjectsUpdateKeepsUnchangedFields(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "keep me")

	r := execute(t, b, "", "projects", "update", "1", "--name", "Alpha 2")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	r = execute(t, b, "", "--json", "projects", "show", "1")
	var p model.Project
	r.jsonData(t, &p)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Alpha 2", p.Name)
	assert.Equal(t, "keep me", p.Description)
}

func TestProjectsShowNotFound(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "projects", "show", "99")
	assert.Equal(t, ExitNotFoundError, r.code)
}

func TestProjectsShowInvalidID(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "projects", "show", "abc")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Empty(t, b.Requests())
}

func TestProjectsDeleteNeedsConfirmation(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")

	// stdin is not a terminal, so there is no one to ask.
	r := execute(t, b, "y\n", "projects", "delete", "1")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "--confirm")
	assert.True(t, b.HasProject(id))
	assert.Zero(t, b.Count("DELETE /api/projects/1"))
}

func TestProjectsDeleteConfirmed(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")

	r := execute(t, b, "", "--confirm", "projects", "delete", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.False(t, b.HasProject(id))
	assert.Contains(t, r.stderr, "Project deleted")
}

func TestProjectsDeleteJSONRequiresConfirm(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "--json", "projects", "delete", "1")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stdout, `"success": false`)
	assert.Zero(t, b.Count("DELETE /api/projects/1"))
}

func TestProjectsDeleteUnknown(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "--confirm", "projects", "delete", "7")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("DELETE /api/projects/7"))
}

func TestProjectsRateAndLike(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "projects", "rate", "1", "4")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stderr, "average 4.0")

	r = execute(t, b, "", "projects", "rate", "1", "9")
	assert.Equal(t, ExitUsageError, r.code)

	r = execute(t, b, "", "--user", "alice", "projects", "like", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stderr, "1 likes")
}

// =============================================================================
// CHAT
// =============================================================================

func TestChatSend(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")

	r := execute(t, b, "", "chat", "send", "1", "hello", "there")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "echo: hello there\n", r.stdout)
	assert.Equal(t, "Journal: hello there", b.Journal(id))
}

func TestChatSendJSON(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "--json", "chat", "send", "1", "hi")
	require.Equal(t, ExitSuccess, r.code, r.stdout)
	var data ChatData
	r.jsonData(t, &data)
	assert.Equal(t, "echo: hi", data.Response)
	require.NotNil(t, data.JournalContent)
	assert.Equal(t, "Journal: hi", *data.JournalContent)
}

func TestChatSendBackendError(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")
	b.BackendError("POST /api/chat", "model offline")

	r := execute(t, b, "", "chat", "send", "1", "hi")
	assert.Equal(t, ExitBackendError, r.code)
	assert.Contains(t, r.stderr, "model offline")
}

func TestChatSendBlankMessage(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "chat", "send", "1", "  ")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/chat"))
}

func TestChatHistory(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")
	b.AddHistory(id,
		model.Message{AgentType: model.SpeakerUser, Content: "question"},
		model.Message{AgentType: "Project Writer", Content: "answer"})

	r := execute(t, b, "", "chat", "history", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "question")
	assert.Contains(t, r.stdout, "Project Writer: answer")
}

func TestChatClear(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")
	b.AddHistory(id, model.Message{AgentType: model.SpeakerUser, Content: "old"})

	r := execute(t, b, "", "chat", "clear", "1")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/projects/1/clear_chat_history"))

	r = execute(t, b, "", "--confirm", "chat", "clear", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, 1, b.Count("POST /api/projects/1/clear_chat_history"))
	assert.Contains(t, r.stderr, "Chat history cleared successfully")
}

func TestChatRepl(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "hello\n/bogus\n/journal\n/quit\n", "chat", "repl", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "projectmate chat: Alpha")
	assert.Contains(t, r.stdout, "echo: hello")
	assert.Contains(t, r.stdout, "Journal: hello")
	assert.Contains(t, r.stderr, "unknown command")
	assert.Equal(t, 1, b.Count("POST /api/chat"))
}

func TestChatReplClearAsksInline(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")
	b.AddHistory(id, model.Message{AgentType: model.SpeakerUser, Content: "old"})

	r := execute(t, b, "/clear\nn\n/clear\ny\n", "chat", "repl", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, 1, b.Count("POST /api/projects/1/clear_chat_history"))
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestDocsShowAllIsolatesFailures(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")
	b.SetDocument(id, model.DocScope, "the scope")
	b.Fail("GET /api/projects/1/hld", http.StatusInternalServerError)

	r := execute(t, b, "", "--json", "docs", "show", "1")
	require.Equal(t, ExitSuccess, r.code, r.stdout)

	var docs []DocumentData
	r.jsonData(t, &docs)
	require.Len(t, docs, len(model.DocKinds()))
	for _, d := range docs {
		switch model.DocKind(d.Kind) {
		case model.DocScope:
			assert.Equal(t, "the scope", d.Content)
		case model.DocHLD:
			assert.NotEmpty(t, d.Error)
		default:
			assert.Empty(t, d.Error, d.Kind)
		}
	}
}

func TestDocsShowKind(t *testing.T) {
	b := newBackend(t)
	id := b.AddProject("Alpha", "")
	b.SetComponents(id, model.DocLLD, model.ComponentDoc{ComponentName: "api", Content: "endpoints"})

	r := execute(t, b, "", "docs", "show", "1", "lld")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "## api")
	assert.Contains(t, r.stdout, "endpoints")
	assert.Equal(t, 1, b.Count("GET /api/projects/1/lld"))
}

func TestDocsShowUnknownKind(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "docs", "show", "1", "novel")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Empty(t, b.Requests())
}

func TestDocsSaveFromFile(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")
	path := filepath.Join(t.TempDir(), "scope.md")
	require.NoError(t, os.WriteFile(path, []byte("new scope"), 0600))

	r := execute(t, b, "", "docs", "save", "1", "scope", "--file", path)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, 1, b.Count("POST /api/projects/1/scope"))
	assert.Contains(t, r.stderr, "Scope saved successfully")

	r = execute(t, b, "", "docs", "show", "1", "scope")
	assert.Contains(t, r.stdout, "new scope")
}

func TestDocsSaveJournalRejected(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "", "docs", "save", "1", "journal", "--content", "x")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/projects/1/journal"))
}

func TestDocsAddAndList(t *testing.T) {
	b := newBackend(t)
	b.AddProject("Alpha", "")

	r := execute(t, b, "notes from stdin", "docs", "add", "1", "--type", "requirements", "--file", "-")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	r = execute(t, b, "", "docs", "list", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "requirements")
	assert.Contains(t, r.stdout, "notes from stdin")
}

// =============================================================================
// PROVIDERS AND AGENTS
// =============================================================================

func TestProvidersSaveAndUpdateKeepsKey(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "providers", "save", "--name", "OpenAI", "--url", "https://api.openai.com", "--key", "sk-secret-1234")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	require.Equal(t, []int{1}, b.ProviderIDs())

	r = execute(t, b, "", "providers", "list")
	assert.Contains(t, r.stdout, "OpenAI")
	assert.NotContains(t, r.stdout, "sk-secret")

	r = execute(t, b, "", "providers", "save", "--id", "1", "--name", "OpenAI EU")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	r = execute(t, b, "", "--json", "providers", "show", "1", "--reveal")
	var p ProviderData
	r.jsonData(t, &p)
	assert.Equal(t, "OpenAI EU", p.Name)
	assert.Equal(t, "https://api.openai.com", p.APIURL)
	assert.Equal(t, "sk-secret-1234", p.APIKey)

	r = execute(t, b, "", "providers", "show", "1")
	assert.Contains(t, r.stdout, "sk-s...1234")
}

func TestProvidersSaveValidation(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "providers", "save", "--name", "NoURL")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/ai_providers"))
}

func TestProvidersDelete(t *testing.T) {
	b := newBackend(t)
	b.AddProvider("OpenAI", "https://api.openai.com", "")

	r := execute(t, b, "", "--confirm", "providers", "delete", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Empty(t, b.ProviderIDs())
}

func TestAgentsSaveUsesDefaultPrompt(t *testing.T) {
	b := newBackend(t)
	pid := b.AddProvider("OpenAI", "https://api.openai.com", "")

	r := execute(t, b, "", "agents", "save", "--type", "Project Writer", "--provider", "1", "--model", "gpt-4o")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	configs := b.AgentConfigs()
	require.Len(t, configs, 1)
	assert.Equal(t, "Project Writer", configs[0].AgentType)
	assert.Equal(t, pid, configs[0].ProviderID)
	assert.Equal(t, "You are the Project Writer.", configs[0].SystemPrompt)
	assert.Equal(t, model.DefaultTemperature, configs[0].Temperature)
}

func TestAgentsSaveRejectsUnknownType(t *testing.T) {
	b := newBackend(t)
	b.AddProvider("OpenAI", "https://api.openai.com", "")

	r := execute(t, b, "", "agents", "save", "--type", "Project Poet", "--provider", "1", "--model", "m", "--prompt", "p")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "unknown agent type")
	assert.Zero(t, b.Count("POST /api/ai_agent_configs"))
}

func TestAgentsUpdateKeepsUnchangedFields(t *testing.T) {
	b := newBackend(t)
	pid := b.AddProvider("OpenAI", "https://api.openai.com", "")
	id := b.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "old", SystemPrompt: "code", Temperature: 0.5})

	r := execute(t, b, "", "agents", "save", "--id", "2", "--model", "new")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	configs := b.AgentConfigs()
	require.Len(t, configs, 1)
	assert.Equal(t, id, configs[0].ID)
	assert.Equal(t, "new", configs[0].ModelName)
	assert.Equal(t, "code", configs[0].SystemPrompt)
	assert.Equal(t, 0.5, configs[0].Temperature)
}

func TestAgentsSaveExplicitZeroTemperature(t *testing.T) {
	b := newBackend(t)
	pid := b.AddProvider("OpenAI", "https://api.openai.com", "")
	b.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "m", SystemPrompt: "code", Temperature: 0.5})

	r := execute(t, b, "", "agents", "save", "--id", "2", "--temperature", "0")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	configs := b.AgentConfigs()
	require.Len(t, configs, 1)
	assert.Zero(t, configs[0].Temperature)
}

func TestAgentsListShowsProviderName(t *testing.T) {
	b := newBackend(t)
	pid := b.AddProvider("OpenAI", "https://api.openai.com", "")
	b.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "gpt-4o"})

	r := execute(t, b, "", "agents", "list")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Project Coder")
	assert.Contains(t, r.stdout, "OpenAI")
}

func TestAgentsTypesAndPrompt(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "agents", "types")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, strings.Join(apitest.AgentTypes, "\n")+"\n", r.stdout)

	r = execute(t, b, "", "agents", "prompt", "Project Tester")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "You are the Project Tester.\n", r.stdout)
}

func TestAgentsApplyAll(t *testing.T) {
	b := newBackend(t)
	pid := b.AddProvider("OpenAI", "https://api.openai.com", "")
	b.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "old"})

	r := execute(t, b, "", "agents", "apply-all", "--provider", "1", "--model", "gpt-4o")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Model applied to all agents successfully!")
	assert.Equal(t, "gpt-4o", b.AgentConfigs()[0].ModelName)

	r = execute(t, b, "", "agents", "apply-all", "--provider", "1")
	assert.Equal(t, ExitUsageError, r.code)
}

// =============================================================================
// BACKUP AND RESTORE
// =============================================================================

func TestBackupThenRestoreLatest(t *testing.T) {
	b := newBackend(t)
	b.AddProvider("OpenAI", "https://api.openai.com", "k")

	r := execute(t, b, "", "backup")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	path := strings.TrimSpace(r.stdout)
	saved, err := os.ReadFile(path)
	require.NoError(t, err)

	r = execute(t, b, "", "--json", "backup", "--list")
	require.Equal(t, ExitSuccess, r.code, r.stdout)
	assert.Contains(t, r.stdout, filepath.Base(path))

	r = execute(t, b, "", "--confirm", "restore", "--latest")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, saved, b.LastRestore)
	assert.Contains(t, r.stderr, "Settings restored successfully")
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	b := newBackend(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"providers": []}`), 0600))

	r := execute(t, b, "", "--confirm", "restore", path)
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/restore"))
}

func TestRestoreNeedsConfirmation(t *testing.T) {
	b := newBackend(t)
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"providers": [], "agent_configs": []}`), 0600))

	r := execute(t, b, "", "restore", path)
	assert.Equal(t, ExitUsageError, r.code)
	assert.Zero(t, b.Count("POST /api/restore"))
}

// =============================================================================
// ROOT
// =============================================================================

func TestVersionJSON(t *testing.T) {
	b := newBackend(t)

	r := execute(t, b, "", "--json", "version")
	require.Equal(t, ExitSuccess, r.code, r.stdout)
	var v VersionData
	r.jsonData(t, &v)
	assert.Equal(t, "test", v.Version)
	assert.NotEmpty(t, v.GoVersion)
}

func TestBackendUnreachable(t *testing.T) {
	setHome(t)
	var out, errOut bytes.Buffer
	code := Execute(Options{
		Args: []string{"--backend", "http://127.0.0.1:1", "projects", "list"},
		In:   strings.NewReader(""),
		Out:  &out,
		Err:  &errOut,
	})
	assert.Equal(t, ExitNetworkError, code, errOut.String())
}

func TestInvalidBackendURL(t *testing.T) {
	setHome(t)
	var out, errOut bytes.Buffer
	code := Execute(Options{
		Args: []string{"--backend", "ftp://example.com", "projects", "list"},
		Out:  &out,
		Err:  &errOut,
	})
	assert.Equal(t, ExitConfigError, code)
}

func TestRootStartsTUI(t *testing.T) {
	b := newBackend(t)
	var got *core.App
	var out, errOut bytes.Buffer
	code := Execute(Options{
		Args: []string{"--backend", b.URL()},
		RunTUI: func(app *core.App) error {
			got = app
			return nil
		},
		Out: &out,
		Err: &errOut,
	})
	require.Equal(t, ExitSuccess, code, errOut.String())
	require.NotNil(t, got)
	assert.Equal(t, b.URL(), got.Client.BaseURL())
}

func TestRootWithoutTUI(t *testing.T) {
	b := newBackend(t)
	r := execute(t, b, "")
	assert.Equal(t, ExitGeneralError, r.code)
}
