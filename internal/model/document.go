// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// DOCUMENT KINDS
// =============================================================================

// DocKind identifies one of the generated document kinds of a project.
// The string value is the path segment used by the backend.
type DocKind string

const (
	DocJournal    DocKind = "journal"
	DocScope      DocKind = "scope"
	DocHLD        DocKind = "hld"
	DocLLD        DocKind = "lld"
	DocMasterLLD  DocKind = "master-lld"
	DocCodingPlan DocKind = "coding-plan"
	DocUnitTests  DocKind = "unit-tests"
)

// docKinds is the tab order.
var docKinds = []DocKind{
	DocJournal,
	DocScope,
	DocHLD,
	DocLLD,
	DocMasterLLD,
	DocCodingPlan,
	DocUnitTests,
}

// DocKinds returns every document kind in tab order.
func DocKinds() []DocKind {
	out := make([]DocKind, len(docKinds))
	copy(out, docKinds)
	return out
}

// ParseDocKind resolves a path segment or label to a DocKind.
func ParseDocKind(s string) (DocKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range docKinds {
		if string(k) == s || strings.ToLower(k.Label()) == s {
			return k, true
		}
	}
	return "", false
}

// Index returns the tab position of the kind, or -1 if unknown.
func (k DocKind) Index() int {
	for i, kk := range docKinds {
		if kk == k {
			return i
		}
	}
	return -1
}

// Label is the tab title.
func (k DocKind) Label() string {
	switch k {
	case DocJournal:
		return "Journal"
	case DocScope:
		return "Scope"
	case DocHLD:
		return "HLD"
	case DocLLD:
		return "LLDs"
	case DocMasterLLD:
		return "Master LLD"
	case DocCodingPlan:
		return "Coding Plan"
	case DocUnitTests:
		return "Unit Tests"
	default:
		return string(k)
	}
}

// MultiComponent reports whether the backend returns a list of
// per-component documents for this kind instead of a single body.
func (k DocKind) MultiComponent() bool {
	return k == DocLLD || k == DocUnitTests
}

// Editable reports whether the backend accepts saving content for the kind.
// The journal is only ever written by the backend during a chat turn.
func (k DocKind) Editable() bool {
	return k.Index() > 0
}

// EmptyText is shown for a multi-component kind with no components.
func (k DocKind) EmptyText() string {
	return "No " + k.Label() + " defined yet."
}

// =============================================================================
// DOCUMENT PAYLOADS
// =============================================================================

// SingleDoc is the payload of a single-body document kind.
type SingleDoc struct {
	Content string `json:"content"`
}

// ComponentDoc is one entry of a multi-component document kind.
type ComponentDoc struct {
	ComponentName string `json:"component_name"`
	Content       string `json:"content"`
}

// DocContent holds a fetched document of any kind.
type DocContent struct {
	Kind       DocKind
	Body       string
	Components []ComponentDoc
}

// Text flattens the content into markdown for display.
func (d DocContent) Text() string {
	if !d.Kind.MultiComponent() {
		return d.Body
	}
	if len(d.Components) == 0 {
		return d.Kind.EmptyText()
	}
	var b strings.Builder
	for i, c := range d.Components {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(c.ComponentName)
		b.WriteString("\n\n")
		b.WriteString(c.Content)
	}
	return b.String()
}

// SaveDocInput is the body for saving generated document content.
type SaveDocInput struct {
	Content       string `json:"content"`
	ComponentName string `json:"component_name,omitempty"`
}

// Document is a user-authored document attached to a project.
type Document struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	DocType   string `json:"doc_type"`
	Content   string `json:"content"`
}

// DocumentInput is the body for creating a user-authored document.
type DocumentInput struct {
	DocType string `json:"doc_type"`
	Content string `json:"content"`
}
