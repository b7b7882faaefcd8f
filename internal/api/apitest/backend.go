// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory projectmate backend for tests.
//
// The fake implements the same REST contract as the real backend on top of
// httptest, records every request, and lets tests inject HTTP failures or
// backend-reported errors per route.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/jeranaias/projectmate/internal/api"
	"github.com/jeranaias/projectmate/internal/model"
)

// AgentTypes is the enumeration the fake serves.
var AgentTypes = []string{
	"Project Assistant",
	"Project Writer",
	"Project Software Architect",
	"Project UX SME",
	"Project DB SME",
	"Project Dev SME",
	"Project Tester SME",
	"Project Web Researcher",
	"Project Coder",
	"Project Tester",
}

var placeholders = map[model.DocKind]string{
	model.DocJournal:    "No journal entries yet.",
	model.DocScope:      "No scope defined yet.",
	model.DocHLD:        "No HLD defined yet.",
	model.DocMasterLLD:  "No Master LLD defined yet.",
	model.DocCodingPlan: "No coding plan defined yet.",
}

type storedProvider struct {
	model.ProviderDetail
}

type projectState struct {
	project    model.Project
	docs       map[model.DocKind]string
	components map[model.DocKind][]model.ComponentDoc
	history    []model.Message
	userDocs   []model.Document
}

// Backend is a fake projectmate backend.
type Backend struct {
	Server *httptest.Server

	// ChatFunc overrides the default chat behavior when set.
	ChatFunc func(projectID int, message string) model.ChatReply

	mu        sync.Mutex
	nextID    int
	projects  map[int]*projectState
	providers map[int]*storedProvider
	agents    map[int]*model.AgentConfig
	requests  []string
	failures  map[string]int
	errors    map[string]string

	// LastRestore holds the raw body of the last restore request.
	LastRestore []byte
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		nextID:    1,
		projects:  make(map[int]*projectState),
		providers: make(map[int]*storedProvider),
		agents:    make(map[int]*model.AgentConfig),
		failures:  make(map[string]int),
		errors:    make(map[string]string),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Client returns a gateway pointed at the fake with limiting disabled.
func (b *Backend) Client() *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{BaseURL: b.URL(), RatePerSec: -1})
}

// =============================================================================
// FAULT INJECTION AND INSPECTION
// =============================================================================

// Fail makes requests matching "METHOD /path" answer with status.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = status
}

// BackendError makes "METHOD /path" answer 200 with {"error": msg}.
func (b *Backend) BackendError(route, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors[route] = msg
}

// Heal removes any injected fault for the route.
func (b *Backend) Heal(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
	delete(b.errors, route)
}

// Requests returns every request seen as "METHOD /path".
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many times route was requested.
func (b *Backend) Count(route string) int {
	n := 0
	for _, r := range b.Requests() {
		if r == route {
			n++
		}
	}
	return n
}

// =============================================================================
// SEEDING
// =============================================================================

func (b *Backend) id() int {
	id := b.nextID
	b.nextID++
	return id
}

// AddProject seeds a project and returns its id.
func (b *Backend) AddProject(name, description string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addProjectLocked(name, description)
}

func (b *Backend) addProjectLocked(name, description string) int {
	id := b.id()
	b.projects[id] = &projectState{
		project:    model.Project{ID: id, Name: name, Description: description},
		docs:       make(map[model.DocKind]string),
		components: make(map[model.DocKind][]model.ComponentDoc),
	}
	return id
}

// SetDocument seeds a single-body document.
func (b *Backend) SetDocument(projectID int, kind model.DocKind, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects[projectID].docs[kind] = content
}

// SetComponents seeds a multi-component document.
func (b *Backend) SetComponents(projectID int, kind model.DocKind, comps ...model.ComponentDoc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects[projectID].components[kind] = comps
}

// AddHistory appends transcript messages.
func (b *Backend) AddHistory(projectID int, msgs ...model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.projects[projectID]
	p.history = append(p.history, msgs...)
}

// AddProvider seeds a provider and returns its id.
func (b *Backend) AddProvider(name, apiURL, apiKey string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.providers[id] = &storedProvider{model.ProviderDetail{ID: id, Name: name, APIURL: apiURL, APIKey: apiKey}}
	return id
}

// AddAgentConfig seeds an agent config and returns its id.
func (b *Backend) AddAgentConfig(cfg model.AgentConfig) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	cfg.ID = b.id()
	b.agents[cfg.ID] = &cfg
	return cfg.ID
}

// Journal returns the stored journal of a project.
func (b *Backend) Journal(projectID int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projects[projectID].docs[model.DocJournal]
}

// ProviderIDs returns the ids of stored providers in ascending order.
func (b *Backend) ProviderIDs() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedKeys(b.providers)
}

// AgentConfigs returns stored agent configs in id order.
func (b *Backend) AgentConfigs() []model.AgentConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.AgentConfig
	for _, id := range sortedKeys(b.agents) {
		out = append(out, *b.agents[id])
	}
	return out
}

// HasProject reports whether the project exists.
func (b *Backend) HasProject(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.projects[id]
	return ok
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// middleware records the request and applies injected faults.
func (b *Backend) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.EscapedPath()
		b.mu.Lock()
		b.requests = append(b.requests, route)
		status, failed := b.failures[route]
		msg, backendErr := b.errors[route]
		b.mu.Unlock()

		switch {
		case failed:
			writeError(w, status, fmt.Sprintf("injected failure %d", status))
		case backendErr:
			writeJSON(w, http.StatusOK, map[string]string{"error": msg})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// withProject resolves {id} to a project or answers 404.
func (b *Backend) withProject(fn func(w http.ResponseWriter, r *http.Request, p *projectState)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		b.mu.Lock()
		p, ok := b.projects[id]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		fn(w, r, p)
	}
}

func readAll(r *http.Request) []byte {
	data, _ := io.ReadAll(r.Body)
	return data
}
