// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings_test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/projectmate/internal/api"
	"github.com/jeranaias/projectmate/internal/api/apitest"
	"github.com/jeranaias/projectmate/internal/cache"
	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/session"
	"github.com/jeranaias/projectmate/internal/settings"
	"github.com/jeranaias/projectmate/internal/storage"
)

type fixture struct {
	backend *apitest.Backend
	sess    *session.Manager
	caches  *cache.Caches
	editor  *settings.Editor
	backups *storage.BackupStore
}

func setup(t *testing.T) *fixture {
	t.Helper()
	b := apitest.New(t)
	store, err := storage.NewBackupStoreWithDir(t.TempDir())
	require.NoError(t, err)

	sess := session.NewManager()
	caches := cache.New()
	cfg := settings.DefaultConfig()
	cfg.Backups = store
	return &fixture{
		backend: b,
		sess:    sess,
		caches:  caches,
		editor:  settings.New(b.Client(), caches, sess, cfg),
		backups: store,
	}
}

func (f *fixture) run(cmd tea.Cmd) []tea.Msg {
	return loop.Run(cmd, f.editor.Update)
}

// must returns a runner for operations that validate before returning a
// command: f.must(t)(f.editor.SaveProvider(form)).
func (f *fixture) must(t *testing.T) func(tea.Cmd, error) []tea.Msg {
	return func(cmd tea.Cmd, err error) []tea.Msg {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, cmd)
		return f.run(cmd)
	}
}

func lastNotice(t *testing.T, msgs []tea.Msg) notify.Msg {
	t.Helper()
	ns := loop.Collect[notify.Msg](msgs)
	require.NotEmpty(t, ns, "expected a notice")
	return ns[len(ns)-1]
}

func projectNames(c *cache.Caches) []string {
	var out []string
	for _, p := range c.Projects.Items() {
		out = append(out, p.Name)
	}
	return out
}

// =============================================================================
// RELOAD TESTS
// =============================================================================

func TestReloadProjectsKeepsBackendOrder(t *testing.T) {
	f := setup(t)
	f.backend.AddProject("Alpha", "")
	f.backend.AddProject("Beta", "")

	f.run(f.editor.ReloadProjects())

	assert.Equal(t, []string{"Alpha", "Beta"}, projectNames(f.caches))
	assert.True(t, f.caches.Projects.Loaded())
}

func TestReloadOlderResponseIgnored(t *testing.T) {
	f := setup(t)
	f.backend.AddProject("Alpha", "")

	first := f.editor.ReloadProjects()
	second := f.editor.ReloadProjects()

	newer := second()
	f.backend.AddProject("Beta", "")
	older := first()

	f.editor.Update(newer)
	f.editor.Update(older)

	assert.Equal(t, []string{"Alpha"}, projectNames(f.caches))
}

func TestReloadFailureKeepsCache(t *testing.T) {
	f := setup(t)
	f.backend.AddProvider("OpenAI", "https://api.openai.com", "k")
	f.run(f.editor.ReloadProviders())
	require.Equal(t, 1, f.caches.Providers.Len())

	f.backend.Fail("GET /api/ai_providers", http.StatusInternalServerError)
	msgs := f.run(f.editor.ReloadProviders())

	n := lastNotice(t, msgs)
	assert.True(t, n.IsError())
	assert.Equal(t, 1, f.caches.Providers.Len())
}

func TestReloadSettingsLoadsAllLists(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost:11434", "")
	f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "m"})

	f.run(f.editor.ReloadSettings())

	assert.Equal(t, 1, f.caches.Providers.Len())
	assert.Equal(t, 1, f.caches.AgentConfigs.Len())
	assert.Equal(t, len(apitest.AgentTypes), f.caches.AgentTypes.Len())
	assert.Equal(t, "Local", f.caches.ProviderName(pid))
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestCreateProjectReloadsList(t *testing.T) {
	f := setup(t)

	msgs := f.must(t)(f.editor.CreateProject("  Alpha  ", "first"))

	assert.Equal(t, []string{"Alpha"}, projectNames(f.caches))
	assert.False(t, lastNotice(t, msgs).IsError())
	created := loop.Collect[settings.MutatedMsg](msgs)
	require.Len(t, created, 1)
	assert.NotZero(t, created[0].ID)
}

func TestCreateProjectRequiresName(t *testing.T) {
	f := setup(t)

	cmd, err := f.editor.CreateProject("   ", "desc")

	assert.Nil(t, cmd)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Zero(t, f.backend.Count("POST /api/projects"))
}

func TestUpdateProject(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProject("Alpha", "")

	f.must(t)(f.editor.UpdateProject(id, "Alpha 2", "renamed"))

	p, ok := f.caches.Projects.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Alpha 2", p.Name)
	assert.Equal(t, "renamed", p.Description)
}

func TestDeleteProjectRequiresConfirmation(t *testing.T) {
	f := setup(t)
	p1 := f.backend.AddProject("P1", "")
	f.backend.AddProject("P2", "")
	f.run(f.editor.ReloadProjects())

	require.NoError(t, f.editor.RequestDeleteProject(p1))
	prompt, ok := f.editor.PendingDelete()
	require.True(t, ok)
	assert.Contains(t, prompt, "P1")

	// Not confirmed: nothing is sent.
	f.editor.CancelDelete()
	f.run(f.editor.ReloadProjects())
	assert.Equal(t, []string{"P1", "P2"}, projectNames(f.caches))
	assert.Zero(t, f.backend.Count(fmt.Sprintf("DELETE /api/projects/%d", p1)))

	require.NoError(t, f.editor.RequestDeleteProject(p1))
	f.run(f.editor.ConfirmDelete())

	assert.Equal(t, []string{"P2"}, projectNames(f.caches))
	_, ok = f.editor.PendingDelete()
	assert.False(t, ok)
}

func TestDeleteActiveProjectReportsClosed(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProject("Alpha", "")
	f.run(f.editor.ReloadProjects())
	f.sess.SelectProject(id)

	require.NoError(t, f.editor.RequestDeleteProject(id))
	msgs := f.run(f.editor.ConfirmDelete())

	closed := loop.Collect[settings.ProjectClosedMsg](msgs)
	require.Len(t, closed, 1)
	assert.Equal(t, id, closed[0].ID)
	// Leaving the view is up to the session owner.
	assert.Equal(t, session.ViewProject, f.sess.View())
}

func TestDeleteOtherProjectKeepsView(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProject("Alpha", "")
	other := f.backend.AddProject("Beta", "")
	f.run(f.editor.ReloadProjects())
	f.sess.SelectProject(id)

	require.NoError(t, f.editor.RequestDeleteProject(other))
	msgs := f.run(f.editor.ConfirmDelete())

	assert.Empty(t, loop.Collect[settings.ProjectClosedMsg](msgs))
	assert.Equal(t, id, f.sess.ActiveProject())
}

func TestRequestDeleteUnknownProject(t *testing.T) {
	f := setup(t)

	err := f.editor.RequestDeleteProject(42)

	assert.Error(t, err)
	_, ok := f.editor.PendingDelete()
	assert.False(t, ok)
}

func TestRateProject(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProject("Alpha", "")

	_, err := f.editor.RateProject(id, 6)
	assert.Error(t, err)
	assert.Zero(t, f.backend.Count(fmt.Sprintf("POST /api/projects/%d/rate", id)))

	msgs := f.must(t)(f.editor.RateProject(id, 4))
	n := lastNotice(t, msgs)
	assert.False(t, n.IsError())
	assert.Contains(t, n.Text, "4.0")
}

func TestLikeProject(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProject("Alpha", "")

	msgs := f.run(f.editor.LikeProject(id))

	assert.Contains(t, lastNotice(t, msgs).Text, "1 likes")
}

// =============================================================================
// PROVIDER TESTS
// =============================================================================

func TestSaveProviderCreatesThenUpdates(t *testing.T) {
	f := setup(t)

	f.must(t)(f.editor.SaveProvider(settings.ProviderForm{Name: "OpenAI", APIURL: "https://api.openai.com", APIKey: "sk-1"}))
	require.Equal(t, 1, f.caches.Providers.Len())
	p, _ := f.caches.Providers.At(0)
	assert.True(t, p.HasAPIKey)

	// A blank key keeps the stored one.
	f.must(t)(f.editor.SaveProvider(settings.ProviderForm{ID: p.ID, Name: "OpenAI EU", APIURL: "https://eu.openai.com"}))

	f.run(f.editor.EditProvider(p.ID))
	form := f.editor.ProviderForm()
	assert.Equal(t, "OpenAI EU", form.Name)
	assert.Equal(t, "https://eu.openai.com", form.APIURL)
	assert.Equal(t, "sk-1", form.APIKey)
	assert.Equal(t, 1, f.backend.Count(fmt.Sprintf("PUT /api/ai_providers/%d", p.ID)))
}

func TestSaveProviderValidation(t *testing.T) {
	f := setup(t)

	_, err := f.editor.SaveProvider(settings.ProviderForm{Name: "x"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "api_url", verr.Field)

	_, err = f.editor.SaveProvider(settings.ProviderForm{APIURL: "http://x"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	assert.Zero(t, f.backend.Count("POST /api/ai_providers"))
}

func TestDeleteProvider(t *testing.T) {
	f := setup(t)
	id := f.backend.AddProvider("OpenAI", "https://api.openai.com", "")
	f.run(f.editor.ReloadProviders())

	require.NoError(t, f.editor.RequestDeleteProvider(id))
	f.run(f.editor.ConfirmDelete())

	assert.Zero(t, f.caches.Providers.Len())
	assert.Empty(t, f.backend.ProviderIDs())
}

func TestFailedMutationReportsAndSkipsReload(t *testing.T) {
	f := setup(t)
	f.backend.Fail("POST /api/ai_providers", http.StatusInternalServerError)

	msgs := f.must(t)(f.editor.SaveProvider(settings.ProviderForm{Name: "A", APIURL: "http://a"}))

	n := lastNotice(t, msgs)
	assert.True(t, n.IsError())
	assert.Equal(t, "Failed to create provider", n.Text)
	assert.Zero(t, f.backend.Count("GET /api/ai_providers"))
}

// =============================================================================
// AGENT CONFIG TESTS
// =============================================================================

func TestSaveAgentConfigValidation(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost", "")
	valid := settings.AgentForm{AgentType: "Project Coder", ProviderID: pid, ModelName: "llama3", Temperature: settings.Temperature(0.7)}

	// Types not loaded yet.
	_, err := f.editor.SaveAgentConfig(valid)
	require.Error(t, err)

	f.run(f.editor.ReloadSettings())

	tests := []struct {
		name  string
		edit  func(*settings.AgentForm)
		field string
	}{
		{"unknown type", func(a *settings.AgentForm) { a.AgentType = "Project Janitor" }, "agent_type"},
		{"no provider", func(a *settings.AgentForm) { a.ProviderID = 0 }, "provider_id"},
		{"missing provider", func(a *settings.AgentForm) { a.ProviderID = 999 }, "provider_id"},
		{"no model", func(a *settings.AgentForm) { a.ModelName = " " }, "model_name"},
		{"too hot", func(a *settings.AgentForm) { a.Temperature = settings.Temperature(2.5) }, "temperature"},
		{"negative", func(a *settings.AgentForm) { a.Temperature = settings.Temperature(-0.1) }, "temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)
			cmd, err := f.editor.SaveAgentConfig(form)
			assert.Nil(t, cmd)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Zero(t, f.backend.Count("POST /api/ai_agent_configs"))

	f.must(t)(f.editor.SaveAgentConfig(valid))
	require.Equal(t, 1, f.caches.AgentConfigs.Len())
	a, _ := f.caches.AgentConfigs.At(0)
	assert.Equal(t, "llama3", a.ModelName)
	assert.InDelta(t, 0.7, a.Temperature, 1e-9)
}

func TestEditAndUpdateAgentConfig(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost", "")
	id := f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "a", Temperature: 1})
	f.run(f.editor.ReloadSettings())

	f.run(f.editor.EditAgentConfig(id))
	form := f.editor.AgentForm()
	require.Equal(t, id, form.ID)
	form.ModelName = "b"

	f.must(t)(f.editor.SaveAgentConfig(form))

	a, ok := f.caches.AgentConfigs.Get(id)
	require.True(t, ok)
	assert.Equal(t, "b", a.ModelName)
	after := f.editor.AgentForm().Temperature
	require.NotNil(t, after)
	assert.Equal(t, model.DefaultTemperature, *after)
}

func TestSaveAgentConfigKeepsZeroTemperature(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost", "")
	id := f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "a", Temperature: 1})
	f.run(f.editor.ReloadSettings())

	f.run(f.editor.EditAgentConfig(id))
	form := f.editor.AgentForm()
	form.Temperature = settings.Temperature(0)
	f.must(t)(f.editor.SaveAgentConfig(form))

	a, ok := f.caches.AgentConfigs.Get(id)
	require.True(t, ok)
	assert.Zero(t, a.Temperature)
	assert.Zero(t, f.backend.AgentConfigs()[0].Temperature)
}

func TestSaveAgentConfigDefaultsUnsetTemperature(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost", "")
	f.run(f.editor.ReloadSettings())

	f.must(t)(f.editor.SaveAgentConfig(settings.AgentForm{AgentType: "Project Coder", ProviderID: pid, ModelName: "m"}))

	require.Equal(t, 1, f.caches.AgentConfigs.Len())
	a, _ := f.caches.AgentConfigs.At(0)
	assert.Equal(t, model.DefaultTemperature, a.Temperature)
}

func TestDefaultPromptIsCached(t *testing.T) {
	f := setup(t)
	route := "GET /api/agent_types/Project%20Coder/system_prompt"

	f.editor.NewAgentConfig()
	f.run(f.editor.DefaultPrompt("Project Coder"))
	assert.Equal(t, "You are the Project Coder.", f.editor.AgentForm().SystemPrompt)

	f.editor.NewAgentConfig()
	msgs := f.run(f.editor.DefaultPrompt("Project Coder"))

	prompts := loop.Collect[settings.PromptMsg](msgs)
	require.Len(t, prompts, 1)
	assert.True(t, prompts[0].Cached)
	assert.Equal(t, 1, f.backend.Count(route))
	assert.Equal(t, "You are the Project Coder.", f.editor.AgentForm().SystemPrompt)
}

func TestDefaultPromptKeepsTypedPrompt(t *testing.T) {
	f := setup(t)
	f.editor.NewAgentConfig()
	cmd := f.editor.DefaultPrompt("Project Coder")

	f.editor.Update(settings.AgentFormMsg{Form: settings.AgentForm{AgentType: "Project Coder", SystemPrompt: "mine"}})
	f.run(cmd)

	assert.Equal(t, "mine", f.editor.AgentForm().SystemPrompt)
}

func TestDeleteAgentConfig(t *testing.T) {
	f := setup(t)
	pid := f.backend.AddProvider("Local", "http://localhost", "")
	id := f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: pid, ModelName: "a"})
	f.run(f.editor.ReloadAgentConfigs())

	require.NoError(t, f.editor.RequestDeleteAgentConfig(id))
	assert.Equal(t, 1, f.caches.AgentConfigs.Len())
	f.run(f.editor.ConfirmDelete())

	assert.Zero(t, f.caches.AgentConfigs.Len())
}

func TestApplyModelToAll(t *testing.T) {
	f := setup(t)
	p1 := f.backend.AddProvider("A", "http://a", "")
	p2 := f.backend.AddProvider("B", "http://b", "")
	f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Coder", ProviderID: p1, ModelName: "old"})
	f.backend.AddAgentConfig(model.AgentConfig{AgentType: "Project Tester", ProviderID: p1, ModelName: "old"})

	_, err := f.editor.ApplyModelToAll(p2, "")
	assert.Error(t, err)
	_, err = f.editor.ApplyModelToAll(0, "new")
	assert.Error(t, err)
	assert.Zero(t, f.backend.Count("POST /api/ai_agent_configs/apply_to_all"))

	msgs := f.must(t)(f.editor.ApplyModelToAll(p2, "new"))

	assert.Equal(t, "Model applied to all agents successfully!", lastNotice(t, msgs).Text)
	for _, a := range f.caches.AgentConfigs.Items() {
		assert.Equal(t, p2, a.ProviderID)
		assert.Equal(t, "new", a.ModelName)
	}
}

// =============================================================================
// BACKUP / RESTORE TESTS
// =============================================================================

func TestBackupWritesSnapshotVerbatim(t *testing.T) {
	f := setup(t)
	f.backend.AddProvider("OpenAI", "https://api.openai.com", "sk-1")

	msgs := f.run(f.editor.Backup())

	done := loop.Collect[settings.BackupMsg](msgs)
	require.Len(t, done, 1)
	require.NoError(t, done[0].Err)

	data, err := os.ReadFile(done[0].Path)
	require.NoError(t, err)
	snap, err := model.ParseSnapshot(data)
	require.NoError(t, err)
	require.Len(t, snap.Providers, 1)
	assert.Equal(t, "sk-1", snap.Providers[0].APIKey)
}

func TestBackupWithoutStore(t *testing.T) {
	b := apitest.New(t)
	e := settings.New(b.Client(), cache.New(), nil, settings.DefaultConfig())

	msgs := loop.Run(e.Backup(), e.Update)

	done := loop.Collect[settings.BackupMsg](msgs)
	require.Len(t, done, 1)
	assert.ErrorIs(t, done[0].Err, settings.ErrNoBackupStore)
}

func TestRestoreRejectsInvalidSnapshot(t *testing.T) {
	f := setup(t)

	for _, data := range []string{`not json`, `{"providers": []}`, `[]`} {
		cmd, err := f.editor.Restore([]byte(data))
		assert.Nil(t, cmd, data)
		assert.ErrorIs(t, err, model.ErrInvalidSnapshot, data)
	}
	assert.Zero(t, f.backend.Count("POST /api/restore"))
}

func TestRestoreFilePostsBytesAndReloads(t *testing.T) {
	f := setup(t)
	raw := `{"providers": [{"name": "Local", "api_url": "http://localhost", "api_key": ""}], "agent_configs": []}`
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	msgs := f.must(t)(f.editor.RestoreFile(path))

	assert.Equal(t, raw, f.backend.Restored())
	assert.Equal(t, "Settings restored successfully", loop.Collect[notify.Msg](msgs)[0].Text)
	require.Equal(t, 1, f.caches.Providers.Len())
	p, _ := f.caches.Providers.At(0)
	assert.Equal(t, "Local", p.Name)
	assert.True(t, f.caches.AgentConfigs.Loaded())
}

func TestRestoreFailureLeavesCaches(t *testing.T) {
	f := setup(t)
	f.backend.AddProvider("Keep", "http://keep", "")
	f.run(f.editor.ReloadProviders())
	f.backend.Fail("POST /api/restore", http.StatusInternalServerError)

	msgs := f.must(t)(f.editor.Restore([]byte(`{"providers": [], "agent_configs": []}`)))

	n := lastNotice(t, msgs)
	assert.True(t, n.IsError())
	var cerr *api.ClientError
	assert.ErrorAs(t, n.Err, &cerr)
	require.Equal(t, 1, f.caches.Providers.Len())
	assert.Equal(t, 1, f.backend.Count("GET /api/ai_providers"))
}

func TestRestoreFileMissing(t *testing.T) {
	f := setup(t)

	_, err := f.editor.RestoreFile(filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
