// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/projectmate/internal/chat"
	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/model"
)

func newChatCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the project assistant",
	}
	cmd.AddCommand(
		newChatSendCmd(rt),
		newChatHistoryCmd(rt),
		newChatClearCmd(rt),
		newChatReplCmd(rt),
	)
	return cmd
}

// ChatData is the --json result of chat send.
type ChatData struct {
	ProjectID      int     `json:"project_id"`
	Response       string  `json:"response"`
	JournalContent *string `json:"journal_content,omitempty"`
}

// HistoryData is one transcript entry in --json output.
type HistoryData struct {
	AgentType string `json:"agent_type"`
	Content   string `json:"content"`
}

func newChatSendCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "send <project-id> <message...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return NewValidationError("message", "", "must not be empty")
			}
			rt.app.EnterProject(id)
			reply, err := rt.send(text)
			if err != nil {
				return err
			}
			data := ChatData{ProjectID: id, Response: reply.Response, JournalContent: reply.JournalContent}
			return rt.emit("chat send", data, func(w io.Writer) {
				fmt.Fprintln(w, reply.Response)
				if reply.JournalContent != nil {
					fmt.Fprintln(rt.err, DimStyle.Render("(journal updated)"))
				}
			})
		},
	}
}

// send runs one chat turn for the active project.
func (rt *runtime) send(text string) (*model.ChatReply, error) {
	c := rt.app.Chat.Send(text)
	if c == nil {
		return nil, NewValidationError("message", text, "nothing to send")
	}
	res, err := rt.run(c)
	if err != nil {
		return nil, err
	}
	replies := loop.Collect[chat.ReplyMsg](res.Msgs)
	if len(replies) == 0 {
		return nil, errors.New("no reply from backend")
	}
	if replies[0].Err != nil {
		return nil, NewCommandError("chat", "send", replies[0].Err)
	}
	return replies[0].Reply, nil
}

func newChatHistoryCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history <project-id>",
		Short: "Print a project's chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			rt.app.EnterProject(id)
			if _, err := rt.run(rt.app.Chat.LoadHistory()); err != nil {
				return err
			}
			transcript := rt.app.Chat.Transcript()
			data := make([]HistoryData, 0, len(transcript))
			for _, m := range transcript {
				data = append(data, HistoryData{AgentType: m.AgentType, Content: m.Content})
			}
			return rt.emit("chat history", data, func(w io.Writer) {
				printTranscript(w, transcript)
			})
		},
	}
}

func newChatClearCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project-id>",
		Short: "Delete a project's chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			rt.app.EnterProject(id)
			if _, err := rt.run(rt.app.LoadProjectName()); err != nil {
				return err
			}
			return rt.clearHistory(rt.confirm)
		},
	}
}

// clearHistory asks through ask and clears the active project's transcript.
func (rt *runtime) clearHistory(ask func(prompt string) error) error {
	app := rt.app
	app.RequestClearHistory()
	prompt, _ := app.Editor.PendingDelete()
	if err := ask(prompt); err != nil {
		app.Editor.CancelDelete()
		return err
	}
	res, err := rt.run(app.Editor.ConfirmDelete())
	if err != nil {
		return err
	}
	return rt.emit("chat clear", map[string]any{"project_id": app.Session.ActiveProject(), "messages": res.Infos()}, nil)
}

func printTranscript(w io.Writer, transcript []model.Message) {
	if len(transcript) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No messages yet."))
		return
	}
	for _, m := range transcript {
		printMessage(w, m)
	}
}

func printMessage(w io.Writer, m model.Message) {
	style := AssistantStyle
	if m.IsUser() {
		style = UserStyle
	}
	label := m.Role().DisplayName()
	if !m.IsUser() && m.AgentType != "" {
		label = m.AgentType
	}
	fmt.Fprintf(w, "%s %s\n", style.Render(label+":"), m.Content)
}

// =============================================================================
// REPL
// =============================================================================

// lineReader reads one line of input at a time.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close()
}

// linerReader edits lines on a terminal and keeps input history.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &linerReader{line: line, historyFile: filepath.Join(dir, "repl_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *linerReader) Close() {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// scanReader reads lines from a pipe. Prompts are not echoed.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scanReader) Close() {}

const replHelp = `Commands:
  /history   reload and print the chat history
  /journal   print the project journal
  /clear     delete the chat history (asks first)
  /help      show this help
  /quit      leave the session`

func newChatReplCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "repl <project-id>",
		Short: "Chat interactively with the project assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			if rt.flags.json {
				return NewValidationError("json", "true", "repl is interactive and has no JSON output")
			}

			var in lineReader
			if IsTTY(rt.in) {
				in = newLinerReader()
			} else {
				in = &scanReader{scanner: bufio.NewScanner(rt.in)}
			}
			defer in.Close()
			return rt.repl(id, in)
		},
	}
}

func (rt *runtime) repl(id int, in lineReader) error {
	app := rt.app
	if _, err := rt.run(app.OpenProject(id)); err != nil {
		return err
	}
	name := app.Session.ProjectName()
	fmt.Fprintln(rt.out, TitleStyle.Render("projectmate chat: "+name))
	fmt.Fprintln(rt.out, DimStyle.Render("Type /help for commands, /quit to leave."))
	printTranscript(rt.out, app.Chat.Transcript())

	prompt := name + "> "
	for {
		input, err := in.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(rt.out)
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := rt.slash(input, in)
			if err != nil {
				DisplayError(rt.err, "chat repl", err, false)
			}
			if quit {
				return nil
			}
			continue
		}

		reply, err := rt.send(input)
		if err != nil {
			DisplayError(rt.err, "chat repl", err, false)
			continue
		}
		printMessage(rt.out, model.NewAssistantMessage(reply.Response))
	}
}

// slash handles a repl command and reports whether to leave.
func (rt *runtime) slash(input string, in lineReader) (bool, error) {
	app := rt.app
	switch cmd := strings.Fields(input)[0]; cmd {
	case "/quit", "/exit", "/q":
		return true, nil
	case "/help", "/?":
		fmt.Fprintln(rt.out, replHelp)
	case "/history":
		if _, err := rt.run(app.Chat.LoadHistory()); err != nil {
			return false, err
		}
		printTranscript(rt.out, app.Chat.Transcript())
	case "/journal":
		if _, err := rt.run(app.Docs.RefreshTab(model.DocJournal)); err != nil {
			return false, err
		}
		fmt.Fprintln(rt.out, app.Docs.Tab(model.DocJournal).Text())
	case "/clear":
		return false, rt.clearHistory(func(prompt string) error {
			answer, err := in.ReadLine(prompt + " [y/N]: ")
			if err != nil {
				return err
			}
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				return ErrCancelled
			}
			return nil
		})
	default:
		return false, NewValidationError("command", cmd, "unknown command, try /help")
	}
	return false, nil
}
