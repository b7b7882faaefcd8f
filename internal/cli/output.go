// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/core"
	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/settings"
	"github.com/jeranaias/projectmate/internal/util"
)

// table renders rows in padded columns. The last column is never padded.
type table struct {
	headers []string
	widths  []int
	rows    [][]string
}

func newTable(headers ...string) *table {
	t := &table{headers: headers, widths: make([]int, len(headers))}
	for i, h := range headers {
		t.widths[i] = util.Width(h)
	}
	return t
}

func (t *table) add(cells ...string) {
	for i, c := range cells {
		if i < len(t.widths) && util.Width(c) > t.widths[i] {
			t.widths[i] = util.Width(c)
		}
	}
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	line := func(cells []string, style func(string) string) {
		var b strings.Builder
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i < len(cells)-1 {
				c = util.PadRight(c, t.widths[i])
			}
			b.WriteString(style(c))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	line(t.headers, func(s string) string { return HeaderStyle.Render(s) })
	for _, r := range t.rows {
		line(r, func(s string) string { return s })
	}
}

// field prints one label/value line of a detail view.
func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", RenderLabel(label+":"), value)
}

// parseID parses a positive entity id argument.
func parseID(name, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, NewValidationErrorWithExample(name, s, "must be a positive integer", "projectmate projects show 3")
	}
	return id, nil
}

// mutation returns the mutation outcome among the messages of a run.
func mutation(res core.Result) (settings.MutatedMsg, bool) {
	ms := loop.Collect[settings.MutatedMsg](res.Msgs)
	if len(ms) == 0 {
		return settings.MutatedMsg{}, false
	}
	return ms[0], true
}

// mutate runs a create, update or delete and prints its outcome.
func (rt *runtime) mutate(command string, cmd tea.Cmd) error {
	res, err := rt.run(cmd)
	if err != nil {
		return err
	}
	m, _ := mutation(res)
	data := MutationData{Entity: m.Entity.String(), Action: string(m.Action), ID: m.ID, Message: m.Text}
	return rt.emit(command, data, func(w io.Writer) {
		if m.Action == settings.ActionCreated && m.ID > 0 {
			fmt.Fprintf(w, "%d\n", m.ID)
		}
	})
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
