// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/jeranaias/projectmate/internal/docsync"
	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/util"
)

func newDocsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"doc", "documents"},
		Short:   "Read and edit project documents",
	}
	cmd.AddCommand(
		newDocsShowCmd(rt),
		newDocsListCmd(rt),
		newDocsAddCmd(rt),
		newDocsSaveCmd(rt),
	)
	return cmd
}

func kindNames() string {
	var names []string
	for _, k := range model.DocKinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func parseKind(s string) (model.DocKind, error) {
	kind, ok := model.ParseDocKind(s)
	if !ok {
		return "", NewValidationErrorWithExample("kind", s, "must be one of "+kindNames(), "projectmate docs show 3 scope")
	}
	return kind, nil
}

func newDocsShowCmd(rt *runtime) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <project-id> [kind]",
		Short: "Print generated project documents",
		Long: `Print one generated document kind, or all of them when no kind is given.

Kinds: ` + kindNames(),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				kind, err := parseKind(args[1])
				if err != nil {
					return err
				}
				return rt.showKind(id, kind, raw)
			}
			return rt.showAll(id, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func (rt *runtime) showKind(id int, kind model.DocKind, raw bool) error {
	rt.app.EnterProject(id)
	if _, err := rt.run(rt.app.Docs.RefreshTab(kind)); err != nil {
		return err
	}
	tab := rt.app.Docs.Tab(kind)
	if tab.State == docsync.TabFailed {
		return NewCommandError("docs", "show", tab.Err)
	}
	return rt.emit("docs show", documentData(kind, tab.Content, nil), func(w io.Writer) {
		fmt.Fprintln(w, rt.markdown(tab.Text(), raw))
	})
}

func (rt *runtime) showAll(id int, raw bool) error {
	ctx, cancel := rt.ctx()
	defer cancel()
	results := docsync.FetchAll(ctx, rt.app.Client, id)

	failed := 0
	data := make([]DocumentData, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		data = append(data, documentData(r.Kind, r.Doc, r.Err))
	}
	if failed == len(results) {
		return NewCommandError("docs", "show", results[0].Err)
	}

	return rt.emit("docs show", data, func(w io.Writer) {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, TitleStyle.Render(r.Kind.Label()))
			fmt.Fprintln(w, RenderSeparator(util.Width(r.Kind.Label())))
			if r.Err != nil {
				fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf("Failed to load %s: %v", r.Kind.Label(), r.Err)))
				continue
			}
			fmt.Fprintln(w, rt.markdown(r.Doc.Text(), raw))
		}
	})
}

func documentData(kind model.DocKind, doc model.DocContent, err error) DocumentData {
	d := DocumentData{Kind: string(kind), Label: kind.Label()}
	if err != nil {
		d.Error = err.Error()
		return d
	}
	if kind.MultiComponent() {
		for _, c := range doc.Components {
			d.Components = append(d.Components, ComponentData{Name: c.ComponentName, Content: c.Content})
		}
		return d
	}
	d.Content = doc.Body
	return d
}

// markdown renders md for a terminal. Piped output stays plain.
func (rt *runtime) markdown(md string, raw bool) string {
	if raw || ColorProfile(rt.out) == termenv.Ascii {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth(rt.out)-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func newDocsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List user-authored documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			app := rt.app
			app.EnterProject(id)
			// Activate also fetches the user document list; only the list
			// is printed here.
			if _, err := rt.run(app.Docs.Activate()); err != nil {
				return err
			}
			docs := app.Docs.UserDocuments()
			return rt.emit("docs list", docs, func(w io.Writer) {
				if len(docs) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No documents yet."))
					return
				}
				t := newTable("ID", "TYPE", "CONTENT")
				for _, d := range docs {
					t.add(strconv.Itoa(d.ID), d.DocType, util.Preview(d.Content, 60))
				}
				t.render(w)
			})
		},
	}
}

// readContent returns --content, or the contents of --file ("-" is stdin).
func (rt *runtime) readContent(content, file string) (string, error) {
	switch {
	case content != "" && file != "":
		return "", NewValidationError("content", "", "use either --content or --file, not both")
	case file == "-":
		data, err := io.ReadAll(rt.in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	return content, nil
}

func newDocsAddCmd(rt *runtime) *cobra.Command {
	var docType, content, file string
	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Attach a user-authored document to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			body, err := rt.readContent(content, file)
			if err != nil {
				return err
			}
			rt.app.EnterProject(id)
			c, err := rt.app.Docs.AddDocument(docType, body)
			if err != nil {
				return err
			}
			if _, err := rt.run(c); err != nil {
				return err
			}
			return rt.emit("docs add", rt.app.Docs.UserDocuments(), nil)
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type, e.g. requirements (required)")
	cmd.Flags().StringVar(&content, "content", "", "document content")
	cmd.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	return cmd
}

func newDocsSaveCmd(rt *runtime) *cobra.Command {
	var component, content, file string
	cmd := &cobra.Command{
		Use:   "save <project-id> <kind>",
		Short: "Replace the content of a generated document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			kind, err := parseKind(args[1])
			if err != nil {
				return err
			}
			body, err := rt.readContent(content, file)
			if err != nil {
				return err
			}
			rt.app.EnterProject(id)
			c, err := rt.app.Docs.SaveDocument(kind, component, body)
			if err != nil {
				return err
			}
			if _, err := rt.run(c); err != nil {
				return err
			}
			tab := rt.app.Docs.Tab(kind)
			return rt.emit("docs save", documentData(kind, tab.Content, tab.Err), nil)
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "component name (required for lld and unit-tests)")
	cmd.Flags().StringVar(&content, "content", "", "document content")
	cmd.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	return cmd
}
