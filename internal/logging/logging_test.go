// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pm.log")
	l, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	l.Named("api").Info("request", zap.String("path", "/api/projects"))
	l.Debug("hidden")
	require.NoError(t, l.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "request", lines[0]["msg"])
	assert.Equal(t, "api", lines[0]["logger"])
	assert.Equal(t, "/api/projects", lines[0]["path"])
	assert.Contains(t, lines[0], "ts")
}

func TestSetLevelAppliesToDerivedLoggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pm.log")
	l, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)
	child := l.Named("chat")

	child.Info("before")
	require.NoError(t, l.SetLevel("debug"))
	child.Debug("after")
	l.Close()

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "after", lines[0]["msg"])
	assert.Equal(t, "debug", l.Level())
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	l := Nop()
	assert.Error(t, l.SetLevel("loud"))
	assert.Equal(t, "info", l.Level())
}

func TestNoOutputsIsNop(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	l.Info("dropped")
	assert.NoError(t, l.Close())
}
