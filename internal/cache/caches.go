// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jeranaias/projectmate/internal/model"
)

// DefaultPromptCacheSize bounds the default prompt LRU.
const DefaultPromptCacheSize = 64

// Caches groups the entity stores.
type Caches struct {
	Projects     *Store[int, model.Project]
	Providers    *Store[int, model.Provider]
	AgentConfigs *Store[int, model.AgentConfig]
	AgentTypes   *Store[string, string]
	Prompts      *PromptCache
}

// New creates empty caches.
func New() *Caches {
	return &Caches{
		Projects:     NewStore(func(p model.Project) int { return p.ID }),
		Providers:    NewStore(func(p model.Provider) int { return p.ID }),
		AgentConfigs: NewStore(func(a model.AgentConfig) int { return a.ID }),
		AgentTypes:   NewStore(func(s string) string { return s }),
		Prompts:      NewPromptCache(DefaultPromptCacheSize),
	}
}

// ProviderName resolves a provider id for display.
func (c *Caches) ProviderName(id int) string {
	if p, ok := c.Providers.Get(id); ok {
		return p.Name
	}
	return "unknown"
}

// =============================================================================
// PROMPT CACHE
// =============================================================================

// PromptCache remembers default system prompts per agent type. Prompts are
// static on the backend, so entries are never invalidated, only evicted.
type PromptCache struct {
	lru *lru.Cache[string, string]
}

// NewPromptCache creates a prompt cache holding up to size entries.
func NewPromptCache(size int) *PromptCache {
	if size <= 0 {
		size = DefaultPromptCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &PromptCache{lru: c}
}

// Get returns the cached prompt for agentType.
func (p *PromptCache) Get(agentType string) (string, bool) {
	return p.lru.Get(agentType)
}

// Put stores a prompt.
func (p *PromptCache) Put(agentType, prompt string) {
	p.lru.Add(agentType, prompt)
}

// Len returns the number of cached prompts.
func (p *PromptCache) Len() int {
	return p.lru.Len()
}
