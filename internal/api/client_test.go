// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/projectmate/internal/api"
	"github.com/jeranaias/projectmate/internal/api/apitest"
	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfigFillsDefaults(t *testing.T) {
	c := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://example.test/"})
	if c.BaseURL() != "http://example.test" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}

	c = api.NewClientWithConfig(nil)
	if c.BaseURL() != api.DefaultConfig().BaseURL {
		t.Errorf("BaseURL() = %q, want default", c.BaseURL())
	}
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestProjectsRoundTrip(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	ctx := context.Background()

	projects, err := c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NotNil(t, projects, "empty list should not be nil")

	created, err := c.CreateProject(ctx, model.ProjectInput{Name: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", created.Name)

	updated, err := c.UpdateProject(ctx, created.ID, model.ProjectInput{Name: "Alpha", Description: "first"})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Description)

	got, err := c.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Description)

	require.NoError(t, c.DeleteProject(ctx, created.ID))
	_, err = c.GetProject(ctx, created.ID)
	assert.True(t, api.IsNotFound(err), "GetProject after delete: %v", err)
}

func TestRateAndLikeProject(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")

	rated, err := c.RateProject(context.Background(), id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.NewAverageRating)

	_, err = c.RateProject(context.Background(), id, 9)
	assert.Error(t, err)

	liked, err := c.LikeProject(context.Background(), id, "someone")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCount)
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestGetDocumentShapes(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")
	b.SetComponents(id, model.DocLLD, model.ComponentDoc{ComponentName: "api", Content: "lld body"})

	journal, err := c.GetDocument(context.Background(), id, model.DocJournal)
	require.NoError(t, err)
	assert.Equal(t, "No journal entries yet.", journal.Body)

	lld, err := c.GetDocument(context.Background(), id, model.DocLLD)
	require.NoError(t, err)
	require.Len(t, lld.Components, 1)
	assert.Equal(t, "api", lld.Components[0].ComponentName)

	tests, err := c.GetDocument(context.Background(), id, model.DocUnitTests)
	require.NoError(t, err)
	assert.Empty(t, tests.Components)

	_, err = c.GetDocument(context.Background(), id, model.DocKind("bogus"))
	assert.Error(t, err)
}

func TestSaveDocumentRejectsJournal(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")

	_, err := c.SaveDocument(context.Background(), id, model.DocJournal, model.SaveDocInput{Content: "x"})
	assert.Error(t, err)
	assert.Zero(t, b.Count("POST /api/projects/1/journal"), "no request should be sent")

	res, err := c.SaveDocument(context.Background(), id, model.DocScope, model.SaveDocInput{Content: "scope v2"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message)

	doc, err := c.GetDocument(context.Background(), id, model.DocScope)
	require.NoError(t, err)
	assert.Equal(t, "scope v2", doc.Body)
}

func TestUserDocuments(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")

	_, err := c.CreateDocument(context.Background(), id, model.DocumentInput{DocType: "notes", Content: "hello"})
	require.NoError(t, err)

	docs, err := c.ListDocuments(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes", docs[0].DocType)
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChatReturnsJournal(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")

	reply, err := c.Chat(context.Background(), id, "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply.Response)
	require.NotNil(t, reply.JournalContent)
	assert.Equal(t, "Journal: hello", *reply.JournalContent)

	history, err := c.ChatHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsUser())
}

func TestChatBackendErrorIsClientError(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")
	b.ChatFunc = func(int, string) model.ChatReply {
		return model.ChatReply{Error: "No AI configuration found for Project Assistant"}
	}

	_, err := c.Chat(context.Background(), id, "hello")
	require.Error(t, err)
	assert.True(t, api.IsBackend(err))
	assert.Equal(t, "No AI configuration found for Project Assistant", err.Error())
}

func TestChatHistoryConversationsPath(t *testing.T) {
	b := apitest.New(t)
	id := b.AddProject("Alpha", "")
	c := api.NewClientWithConfig(&api.ClientConfig{BaseURL: b.URL(), HistoryPath: api.HistoryConversations})

	_, err := c.ChatHistory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count("GET /api/projects/1/conversations"))
}

func TestClearChatHistory(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProject("Alpha", "")
	b.AddHistory(id, model.Message{AgentType: "user", Content: "q"})

	res, err := c.ClearChatHistory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Chat history cleared successfully", res.Message)

	history, err := c.ChatHistory(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// =============================================================================
// PROVIDER TESTS
// =============================================================================

func TestProviderKeyOnlyInDetail(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProvider("OpenAI", "https://api.openai.com/v1/chat/completions", "sk-secret")

	list, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].HasAPIKey)

	detail, err := c.GetProvider(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", detail.APIKey)
}

func TestUpdateProviderKeepsKeyWhenNil(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	id := b.AddProvider("OpenAI", "u", "sk-secret")

	_, err := c.UpdateProvider(context.Background(), id, model.ProviderInput{Name: "OpenAI 2", APIURL: "u2"})
	require.NoError(t, err)

	detail, err := c.GetProvider(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "OpenAI 2", detail.Name)
	assert.Equal(t, "sk-secret", detail.APIKey)
}

// =============================================================================
// AGENT TESTS
// =============================================================================

func TestAgentTypesAndPrompt(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()

	types, err := c.AgentTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apitest.AgentTypes, types)

	prompt, err := c.DefaultSystemPrompt(context.Background(), "Project UX SME")
	require.NoError(t, err)
	assert.Equal(t, "You are the Project UX SME.", prompt)
	assert.Equal(t, 1, b.Count("GET /api/agent_types/Project%20UX%20SME/system_prompt"))
}

func TestApplyModelToAll(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	p := b.AddProvider("Ollama", "http://localhost:11434/api/chat", "")
	b.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ModelName: "old"})
	b.AddAgentConfig(model.AgentConfig{AgentType: "Project Tester", ModelName: "old"})

	res, err := c.ApplyModelToAll(context.Background(), model.ApplyModelInput{ProviderID: p, ModelName: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "Model applied to all agents successfully!", res.Message)

	for _, cfg := range b.AgentConfigs() {
		assert.Equal(t, "llama3", cfg.ModelName)
		assert.Equal(t, p, cfg.ProviderID)
	}
}

// =============================================================================
// BACKUP TESTS
// =============================================================================

func TestRestoreSendsBytesVerbatim(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	raw := `{"providers": [{"name":"X","api_url":"u","api_key":"k"}],   "agent_configs": []}`

	res, err := c.Restore(context.Background(), []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Settings restored successfully", res.Message)
	assert.Equal(t, raw, b.Restored())

	data, err := c.Backup(context.Background())
	require.NoError(t, err)
	snap, err := model.ParseSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "X", snap.Providers[0].Name)
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestStatusErrors(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	b.AddProject("Alpha", "")
	b.Fail("GET /api/projects", http.StatusInternalServerError)

	_, err := c.ListProjects(context.Background())
	var clientErr *api.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, api.ErrTypeHTTPStatus, clientErr.Type)
	assert.Equal(t, http.StatusInternalServerError, clientErr.Status)
	assert.Contains(t, err.Error(), "injected failure 500")

	b.Heal("GET /api/projects")
	_, err = c.ListProjects(context.Background())
	assert.NoError(t, err)
}

func TestBackendErrorOn2xx(t *testing.T) {
	b := apitest.New(t)
	c := b.Client()
	b.BackendError("GET /api/ai_providers", "database locked")

	_, err := c.ListProviders(context.Background())
	assert.True(t, api.IsBackend(err), "err = %v", err)
}

func TestTimeoutMapping(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := api.NewClientWithConfig(&api.ClientConfig{BaseURL: slow.URL, RatePerSec: -1})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListProjects(ctx)
	if !api.IsTimeout(err) {
		t.Fatalf("ListProjects() error = %v, want timeout", err)
	}
	if !errors.Is(err, api.ErrTimeout) {
		t.Error("errors.Is(err, ErrTimeout) = false")
	}
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.NewClientWithConfig(&api.ClientConfig{BaseURL: url, RatePerSec: -1})
	_, err := c.ListProjects(context.Background())
	if !api.IsConnection(err) {
		t.Errorf("ListProjects() error = %v, want connection error", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL, RatePerSec: -1})
	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, "projectmate", got.Get("User-Agent"))
}
