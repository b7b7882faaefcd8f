// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docsync

import (
	"fmt"

	"github.com/jeranaias/projectmate/internal/model"
)

// TabState is the load state of a document tab.
type TabState int

const (
	TabIdle TabState = iota
	TabLoading
	TabLoaded
	TabFailed
)

// String returns the state name.
func (s TabState) String() string {
	switch s {
	case TabIdle:
		return "idle"
	case TabLoading:
		return "loading"
	case TabLoaded:
		return "loaded"
	case TabFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Tab is the displayed state of one document kind.
type Tab struct {
	Kind    model.DocKind
	State   TabState
	Content model.DocContent
	Err     error

	seq uint64
}

// Text is what the tab body shows.
func (t Tab) Text() string {
	switch t.State {
	case TabLoading:
		return "Loading " + t.Kind.Label() + "..."
	case TabFailed:
		return fmt.Sprintf("Failed to load %s: %v", t.Kind.Label(), t.Err)
	case TabLoaded:
		return t.Content.Text()
	default:
		return ""
	}
}

func newTabs() []Tab {
	kinds := model.DocKinds()
	tabs := make([]Tab, len(kinds))
	for i, k := range kinds {
		tabs[i] = Tab{Kind: k, Content: model.DocContent{Kind: k}}
	}
	return tabs
}
