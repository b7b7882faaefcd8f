// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jeranaias/projectmate/internal/model"
)

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects", b.listProjects)
	mux.HandleFunc("POST /api/projects", b.createProject)
	mux.HandleFunc("GET /api/projects/{id}", b.withProject(b.getProject))
	mux.HandleFunc("PUT /api/projects/{id}", b.withProject(b.updateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", b.withProject(b.deleteProject))
	mux.HandleFunc("POST /api/projects/{id}/rate", b.withProject(b.rateProject))
	mux.HandleFunc("POST /api/projects/{id}/like", b.withProject(b.likeProject))
	mux.HandleFunc("GET /api/projects/{id}/documents", b.withProject(b.listDocuments))
	mux.HandleFunc("POST /api/projects/{id}/documents", b.withProject(b.createDocument))
	mux.HandleFunc("GET /api/projects/{id}/chat_history", b.withProject(b.chatHistory))
	mux.HandleFunc("GET /api/projects/{id}/conversations", b.withProject(b.chatHistory))
	mux.HandleFunc("POST /api/projects/{id}/clear_chat_history", b.withProject(b.clearHistory))
	mux.HandleFunc("GET /api/projects/{id}/{kind}", b.withProject(b.getDocument))
	mux.HandleFunc("POST /api/projects/{id}/{kind}", b.withProject(b.saveDocument))

	mux.HandleFunc("POST /api/chat", b.chat)

	mux.HandleFunc("GET /api/ai_providers", b.listProviders)
	mux.HandleFunc("POST /api/ai_providers", b.createProvider)
	mux.HandleFunc("GET /api/ai_providers/{id}", b.getProvider)
	mux.HandleFunc("PUT /api/ai_providers/{id}", b.updateProvider)
	mux.HandleFunc("DELETE /api/ai_providers/{id}", b.deleteProvider)

	mux.HandleFunc("GET /api/ai_agent_configs", b.listAgents)
	mux.HandleFunc("POST /api/ai_agent_configs", b.createAgent)
	mux.HandleFunc("POST /api/ai_agent_configs/apply_to_all", b.applyToAll)
	mux.HandleFunc("GET /api/ai_agent_configs/{id}", b.getAgent)
	mux.HandleFunc("PUT /api/ai_agent_configs/{id}", b.updateAgent)
	mux.HandleFunc("DELETE /api/ai_agent_configs/{id}", b.deleteAgent)

	mux.HandleFunc("GET /api/agent_types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, AgentTypes)
	})
	mux.HandleFunc("GET /api/agent_types/{type}/system_prompt", b.systemPrompt)

	mux.HandleFunc("GET /api/backup", b.backup)
	mux.HandleFunc("POST /api/restore", b.restore)

	return b.middleware(mux)
}

// =============================================================================
// PROJECTS
// =============================================================================

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make([]model.Project, 0, len(b.projects))
	for _, id := range sortedKeys(b.projects) {
		out = append(out, b.projects[id].project)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if err := decode(r, &in); err != nil || in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	b.mu.Lock()
	id := b.addProjectLocked(in.Name, in.Description)
	p := b.projects[id].project
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) getProject(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	out := p.project
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) updateProject(w http.ResponseWriter, r *http.Request, p *projectState) {
	var in model.ProjectInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	p.project.Name = in.Name
	p.project.Description = in.Description
	out := p.project
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	delete(b.projects, p.project.ID)
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) rateProject(w http.ResponseWriter, r *http.Request, p *projectState) {
	var in struct {
		Rating int `json:"rating"`
	}
	if err := decode(r, &in); err != nil || in.Rating < model.MinRating || in.Rating > model.MaxRating {
		writeError(w, http.StatusBadRequest, "Invalid rating. Must be between 1 and 5.")
		return
	}
	b.mu.Lock()
	p.project.AverageRating = float64(in.Rating)
	avg := p.project.AverageRating
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.RatingResult{Message: "Project rated successfully", NewAverageRating: avg})
}

func (b *Backend) likeProject(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	p.project.LikesCount++
	n := p.project.LikesCount
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.LikeResult{Message: "Project liked successfully", LikesCount: n})
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func (b *Backend) getDocument(w http.ResponseWriter, r *http.Request, p *projectState) {
	kind, ok := model.ParseDocKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown document kind")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if kind.MultiComponent() {
		comps := p.components[kind]
		if comps == nil {
			comps = []model.ComponentDoc{}
		}
		writeJSON(w, http.StatusOK, comps)
		return
	}
	content, ok := p.docs[kind]
	if !ok {
		content = placeholders[kind]
	}
	writeJSON(w, http.StatusOK, model.SingleDoc{Content: content})
}

func (b *Backend) saveDocument(w http.ResponseWriter, r *http.Request, p *projectState) {
	kind, ok := model.ParseDocKind(r.PathValue("kind"))
	if !ok || !kind.Editable() {
		writeError(w, http.StatusNotFound, "unknown document kind")
		return
	}
	var in model.SaveDocInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	if kind.MultiComponent() {
		replaced := false
		for i, c := range p.components[kind] {
			if c.ComponentName == in.ComponentName {
				p.components[kind][i].Content = in.Content
				replaced = true
			}
		}
		if !replaced {
			p.components[kind] = append(p.components[kind], model.ComponentDoc{ComponentName: in.ComponentName, Content: in.Content})
		}
	} else {
		p.docs[kind] = in.Content
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.StatusMessage{Message: kind.Label() + " saved successfully"})
}

func (b *Backend) listDocuments(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	out := append([]model.Document{}, p.userDocs...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createDocument(w http.ResponseWriter, r *http.Request, p *projectState) {
	var in model.DocumentInput
	if err := decode(r, &in); err != nil || in.DocType == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "doc_type and content are required")
		return
	}
	b.mu.Lock()
	doc := model.Document{ID: b.id(), ProjectID: p.project.ID, DocType: in.DocType, Content: in.Content}
	p.userDocs = append(p.userDocs, doc)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, doc)
}

// =============================================================================
// CHAT
// =============================================================================

func (b *Backend) chat(w http.ResponseWriter, r *http.Request) {
	var in model.ChatRequest
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	p, ok := b.projects[in.ProjectID]
	fn := b.ChatFunc
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	var reply model.ChatReply
	if fn != nil {
		reply = fn(in.ProjectID, in.Message)
	} else {
		journal := "Journal: " + in.Message
		reply = model.ChatReply{Response: "echo: " + in.Message, JournalContent: &journal}
	}
	if reply.Error != "" {
		writeJSON(w, http.StatusOK, reply)
		return
	}

	b.mu.Lock()
	p.history = append(p.history,
		model.Message{AgentType: model.SpeakerUser, Content: in.Message},
		model.Message{AgentType: model.AssistantAgent, Content: reply.Response})
	if reply.JournalContent != nil {
		p.docs[model.DocJournal] = *reply.JournalContent
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, reply)
}

func (b *Backend) chatHistory(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	out := append([]model.Message{}, p.history...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) clearHistory(w http.ResponseWriter, r *http.Request, p *projectState) {
	b.mu.Lock()
	p.history = nil
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.StatusMessage{Message: "Chat history cleared successfully"})
}

// =============================================================================
// PROVIDERS
// =============================================================================

func (b *Backend) listProviders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make([]model.Provider, 0, len(b.providers))
	for _, id := range sortedKeys(b.providers) {
		p := b.providers[id]
		out = append(out, model.Provider{ID: p.ID, Name: p.Name, APIURL: p.APIURL, HasAPIKey: p.APIKey != ""})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) provider(w http.ResponseWriter, r *http.Request) (*storedProvider, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	b.mu.Lock()
	p, ok := b.providers[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Provider not found")
	}
	return p, ok
}

func (b *Backend) createProvider(w http.ResponseWriter, r *http.Request) {
	var in model.ProviderInput
	if err := decode(r, &in); err != nil || in.Name == "" || in.APIURL == "" {
		writeError(w, http.StatusBadRequest, "name and api_url are required")
		return
	}
	key := ""
	if in.APIKey != nil {
		key = *in.APIKey
	}
	id := b.AddProvider(in.Name, in.APIURL, key)
	writeJSON(w, http.StatusCreated, model.Provider{ID: id, Name: in.Name, APIURL: in.APIURL, HasAPIKey: key != ""})
}

func (b *Backend) getProvider(w http.ResponseWriter, r *http.Request) {
	p, ok := b.provider(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	out := p.ProviderDetail
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) updateProvider(w http.ResponseWriter, r *http.Request) {
	p, ok := b.provider(w, r)
	if !ok {
		return
	}
	var in model.ProviderInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	p.Name = in.Name
	p.APIURL = in.APIURL
	if in.APIKey != nil {
		p.APIKey = *in.APIKey
	}
	out := model.Provider{ID: p.ID, Name: p.Name, APIURL: p.APIURL, HasAPIKey: p.APIKey != ""}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) deleteProvider(w http.ResponseWriter, r *http.Request) {
	p, ok := b.provider(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.providers, p.ID)
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// AGENT CONFIGS
// =============================================================================

func (b *Backend) listAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(b.AgentConfigs()))
}

func nonNil(cfgs []model.AgentConfig) []model.AgentConfig {
	if cfgs == nil {
		return []model.AgentConfig{}
	}
	return cfgs
}

func (b *Backend) agent(w http.ResponseWriter, r *http.Request) (*model.AgentConfig, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	b.mu.Lock()
	a, ok := b.agents[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Agent config not found")
	}
	return a, ok
}

func (b *Backend) createAgent(w http.ResponseWriter, r *http.Request) {
	var in model.AgentConfigInput
	if err := decode(r, &in); err != nil || in.AgentType == "" {
		writeError(w, http.StatusBadRequest, "agent_type is required")
		return
	}
	cfg := model.AgentConfig{
		AgentType:    in.AgentType,
		ProviderID:   in.ProviderID,
		ModelName:    in.ModelName,
		SystemPrompt: in.SystemPrompt,
		Temperature:  in.Temperature,
	}
	cfg.ID = b.AddAgentConfig(cfg)
	writeJSON(w, http.StatusCreated, cfg)
}

func (b *Backend) getAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := b.agent(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	out := *a
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) updateAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := b.agent(w, r)
	if !ok {
		return
	}
	var in model.AgentConfigInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	a.AgentType = in.AgentType
	a.ProviderID = in.ProviderID
	a.ModelName = in.ModelName
	a.SystemPrompt = in.SystemPrompt
	a.Temperature = in.Temperature
	out := *a
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) deleteAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := b.agent(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.agents, a.ID)
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) applyToAll(w http.ResponseWriter, r *http.Request) {
	var in model.ApplyModelInput
	if err := decode(r, &in); err != nil || in.ProviderID == 0 || in.ModelName == "" {
		writeError(w, http.StatusBadRequest, "provider_id and model_name are required")
		return
	}
	b.mu.Lock()
	for _, a := range b.agents {
		a.ProviderID = in.ProviderID
		a.ModelName = in.ModelName
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.StatusMessage{Message: "Model applied to all agents successfully!"})
}

func (b *Backend) systemPrompt(w http.ResponseWriter, r *http.Request) {
	agentType := r.PathValue("type")
	for _, t := range AgentTypes {
		if t == agentType {
			writeJSON(w, http.StatusOK, model.SystemPrompt{SystemPrompt: "You are the " + t + "."})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Agent type not found")
}

// =============================================================================
// BACKUP / RESTORE
// =============================================================================

func (b *Backend) backup(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	snap := model.Snapshot{Providers: []model.SnapshotProvider{}, AgentConfigs: []model.SnapshotAgentConfig{}}
	for _, id := range sortedKeys(b.providers) {
		p := b.providers[id]
		snap.Providers = append(snap.Providers, model.SnapshotProvider{Name: p.Name, APIURL: p.APIURL, APIKey: p.APIKey})
	}
	for _, id := range sortedKeys(b.agents) {
		a := b.agents[id]
		snap.AgentConfigs = append(snap.AgentConfigs, model.SnapshotAgentConfig{
			AgentType: a.AgentType, ProviderID: a.ProviderID, ModelName: a.ModelName, SystemPrompt: a.SystemPrompt,
		})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (b *Backend) restore(w http.ResponseWriter, r *http.Request) {
	raw := readAll(r)
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot")
		return
	}
	b.mu.Lock()
	b.LastRestore = raw
	b.providers = make(map[int]*storedProvider)
	b.agents = make(map[int]*model.AgentConfig)
	for _, p := range snap.Providers {
		id := b.id()
		b.providers[id] = &storedProvider{model.ProviderDetail{ID: id, Name: p.Name, APIURL: p.APIURL, APIKey: p.APIKey}}
	}
	for _, a := range snap.AgentConfigs {
		id := b.id()
		b.agents[id] = &model.AgentConfig{
			ID: id, AgentType: a.AgentType, ProviderID: a.ProviderID, ModelName: a.ModelName,
			SystemPrompt: a.SystemPrompt, Temperature: model.DefaultTemperature,
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.StatusMessage{Message: "Settings restored successfully"})
}

// Restored returns the raw body of the last restore, trimmed.
func (b *Backend) Restored() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(string(b.LastRestore))
}
