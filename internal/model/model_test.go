// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// DOC KIND TESTS
// =============================================================================

func TestDocKindsOrder(t *testing.T) {
	want := []DocKind{DocJournal, DocScope, DocHLD, DocLLD, DocMasterLLD, DocCodingPlan, DocUnitTests}
	got := DocKinds()
	if len(got) != len(want) {
		t.Fatalf("len(DocKinds()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DocKinds()[%d] = %q, want %q", i, got[i], want[i])
		}
		if got[i].Index() != i {
			t.Errorf("%q.Index() = %d, want %d", got[i], got[i].Index(), i)
		}
	}

	// Mutating the returned slice must not affect tab order.
	got[0] = DocUnitTests
	if DocKinds()[0] != DocJournal {
		t.Error("DocKinds() returned shared backing array")
	}
}

func TestParseDocKind(t *testing.T) {
	tests := []struct {
		in   string
		want DocKind
		ok   bool
	}{
		{"journal", DocJournal, true},
		{"master-lld", DocMasterLLD, true},
		{"Master LLD", DocMasterLLD, true},
		{" Unit Tests ", DocUnitTests, true},
		{"CODING-PLAN", DocCodingPlan, true},
		{"notes", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDocKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDocKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDocKindShape(t *testing.T) {
	for _, k := range DocKinds() {
		multi := k == DocLLD || k == DocUnitTests
		if k.MultiComponent() != multi {
			t.Errorf("%q.MultiComponent() = %v, want %v", k, k.MultiComponent(), multi)
		}
		if k.Editable() == (k == DocJournal) {
			t.Errorf("%q.Editable() = %v", k, k.Editable())
		}
	}
}

func TestDocContentText(t *testing.T) {
	single := DocContent{Kind: DocScope, Body: "No scope defined yet."}
	if single.Text() != "No scope defined yet." {
		t.Errorf("Text() = %q", single.Text())
	}

	empty := DocContent{Kind: DocLLD}
	if empty.Text() != "No LLDs defined yet." {
		t.Errorf("empty Text() = %q", empty.Text())
	}

	multi := DocContent{Kind: DocUnitTests, Components: []ComponentDoc{
		{ComponentName: "api", Content: "test api"},
		{ComponentName: "ui", Content: "test ui"},
	}}
	text := multi.Text()
	if !strings.Contains(text, "## api") || !strings.Contains(text, "## ui") {
		t.Errorf("multi Text() missing headings: %q", text)
	}
	if strings.Index(text, "api") > strings.Index(text, "ui") {
		t.Error("components rendered out of order")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role() != RoleUser {
		t.Errorf("Role() = %q, want user", msg.Role())
	}
	if !msg.Pending {
		t.Error("echo should start pending")
	}
	if msg.ID == "" {
		t.Error("echo should have a local id")
	}
}

func TestMessageRoleFromAgentType(t *testing.T) {
	var history []Message
	data := `[{"agent_type":"user","content":"q"},{"agent_type":"Project Assistant","content":"a"},{"agent_type":"Project Writer","content":"w"}]`
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	wantRoles := []Role{RoleUser, RoleAssistant, RoleAssistant}
	for i, m := range history {
		if m.Role() != wantRoles[i] {
			t.Errorf("history[%d].Role() = %q, want %q", i, m.Role(), wantRoles[i])
		}
		if m.Pending {
			t.Errorf("history[%d] decoded as pending", i)
		}
	}
}

func TestChatReplyJournalOptional(t *testing.T) {
	var with, without ChatReply
	if err := json.Unmarshal([]byte(`{"response":"hi","journal_content":"J"}`), &with); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"response":"hi","journal_content":null}`), &without); err != nil {
		t.Fatal(err)
	}
	if with.JournalContent == nil || *with.JournalContent != "J" {
		t.Errorf("JournalContent = %v, want J", with.JournalContent)
	}
	if without.JournalContent != nil {
		t.Errorf("JournalContent = %v, want nil", *without.JournalContent)
	}
}

// =============================================================================
// PROVIDER / AGENT TESTS
// =============================================================================

func TestProviderListNeverCarriesKey(t *testing.T) {
	var p Provider
	if err := json.Unmarshal([]byte(`{"id":1,"name":"OpenAI","api_url":"u","api_key":"sk-secret","has_api_key":true}`), &p); err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(p)
	if strings.Contains(string(out), "sk-secret") {
		t.Errorf("Provider leaked api key: %s", out)
	}
	if !p.HasAPIKey {
		t.Error("HasAPIKey = false, want true")
	}
}

func TestAgentConfigInputNormalize(t *testing.T) {
	in := AgentConfigInput{AgentType: " Project Coder ", ModelName: " gpt-4 "}.Normalize()
	if in.AgentType != "Project Coder" || in.ModelName != "gpt-4" {
		t.Errorf("Normalize() = %+v", in)
	}
	if in.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0 kept", in.Temperature)
	}
}

func TestTemperatureOrDefault(t *testing.T) {
	if got := TemperatureOrDefault(nil); got != DefaultTemperature {
		t.Errorf("TemperatureOrDefault(nil) = %v, want %v", got, DefaultTemperature)
	}
	zero := 0.0
	if got := TemperatureOrDefault(&zero); got != 0 {
		t.Errorf("TemperatureOrDefault(&0) = %v, want 0", got)
	}
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestParseSnapshot(t *testing.T) {
	good := `{"providers":[{"name":"Ollama","api_url":"http://localhost:11434/api/chat","api_key":""}],"agent_configs":[]}`
	snap, err := ParseSnapshot([]byte(good))
	if err != nil {
		t.Fatalf("ParseSnapshot() error = %v", err)
	}
	if len(snap.Providers) != 1 || snap.Providers[0].Name != "Ollama" {
		t.Errorf("Providers = %+v", snap.Providers)
	}

	for _, bad := range []string{`not json`, `{"providers":[]}`, `[]`, `{"agent_configs":[]}`} {
		if _, err := ParseSnapshot([]byte(bad)); !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("ParseSnapshot(%q) error = %v, want ErrInvalidSnapshot", bad, err)
		}
	}
}
