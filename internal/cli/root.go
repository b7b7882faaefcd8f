// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/core"
	"github.com/jeranaias/projectmate/internal/logging"
)

// Options configures Execute.
type Options struct {
	Version   string
	GitCommit string
	BuildDate string

	// RunTUI starts the interactive interface over a ready App.
	RunTUI func(app *core.App) error

	// Args replaces os.Args[1:] when non-nil.
	Args []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type globalFlags struct {
	configPath string
	backend    string
	userID     string
	json       bool
	confirm    bool
	verbose    bool
}

// runtime is the per-invocation state shared by every command.
type runtime struct {
	opts  Options
	flags globalFlags

	in       io.Reader
	out, err io.Writer

	cfg     *config.Config
	cfgPath string
	logger  *logging.Logger
	app     *core.App

	notices []string
}

// Execute runs the command line and returns the process exit code.
func Execute(opts Options) int {
	root, rt := NewRootCmd(opts)
	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitSuccess
	}

	name := root.Name()
	if cmd != nil {
		name = cmd.Name()
	}
	if rt.logger != nil {
		rt.logger.Error("command failed", zap.String("command", name), zap.Error(err))
	}
	if rt.flags.json {
		DisplayError(rt.out, name, err, true)
	} else {
		DisplayError(rt.err, name, err, false)
	}
	return GetExitCode(err)
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) (*cobra.Command, *runtime) {
	rt := &runtime{opts: opts, in: opts.In, out: opts.Out, err: opts.Err}
	if rt.in == nil {
		rt.in = os.Stdin
	}
	if rt.out == nil {
		rt.out = os.Stdout
	}
	if rt.err == nil {
		rt.err = os.Stderr
	}

	root := &cobra.Command{
		Use:   "projectmate",
		Short: "Client for the projectmate project assistant",
		Long: `projectmate manages projects, chats with the project assistant and keeps the
generated project documents in view.

Run without a command to start the interactive interface.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.runTUI()
		},
	}
	root.SetIn(rt.in)
	root.SetOut(rt.out)
	root.SetErr(rt.err)
	if opts.Args != nil {
		root.SetArgs(opts.Args)
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rt.flags.configPath, "config", "", "config file (default ~/.projectmate/config.toml)")
	pf.StringVar(&rt.flags.backend, "backend", "", "backend URL (overrides config)")
	pf.StringVar(&rt.flags.userID, "user", "", "user id sent when liking projects")
	pf.BoolVar(&rt.flags.json, "json", false, "print machine-readable JSON")
	pf.BoolVar(&rt.flags.confirm, "confirm", false, "skip confirmation of destructive actions")
	pf.BoolVarP(&rt.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the interactive interface",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.runTUI()
			},
		},
		newProjectsCmd(rt),
		newChatCmd(rt),
		newDocsCmd(rt),
		newProvidersCmd(rt),
		newAgentsCmd(rt),
		newBackupCmd(rt),
		newRestoreCmd(rt),
		newVersionCmd(rt),
	)
	return root, rt
}

// =============================================================================
// SETUP
// =============================================================================

func (rt *runtime) setup() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	var cfg *config.Config
	var err error
	if rt.flags.configPath != "" {
		rt.cfgPath = rt.flags.configPath
		cfg, err = config.LoadFromPath(rt.flags.configPath)
	} else {
		rt.cfgPath, _ = config.ConfigPathTOML()
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if rt.flags.backend != "" {
		cfg.Backend.URL = rt.flags.backend
	}
	if rt.flags.userID != "" {
		cfg.Backend.UserID = rt.flags.userID
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.cfg = cfg

	logFile := cfg.Logging.File
	if logFile == "" {
		logFile, _ = config.DefaultLogFile()
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    logFile,
		Verbose: rt.flags.verbose,
	})
	if err != nil {
		return err
	}
	rt.logger = logger
	rt.logger.Debug("starting",
		zap.String("version", rt.opts.Version),
		zap.String("backend", cfg.Backend.URL))

	app, err := core.New(cfg, logger)
	if err != nil {
		return err
	}
	app.ConfigPath = rt.cfgPath
	rt.app = app
	return nil
}

func (rt *runtime) close() {
	if rt.logger != nil {
		rt.logger.Close()
	}
}

func (rt *runtime) runTUI() error {
	if rt.opts.RunTUI == nil {
		return errors.New("interactive interface is not available in this build")
	}
	return rt.opts.RunTUI(rt.app)
}

// =============================================================================
// COMMAND HELPERS
// =============================================================================

// run executes cmd to completion. Informational notices are printed to
// stderr, or kept for the JSON response. The first failure notice is the
// returned error.
func (rt *runtime) run(cmd tea.Cmd) (core.Result, error) {
	res := rt.app.Run(cmd)
	for _, text := range res.Infos() {
		rt.notice(text)
	}
	return res, res.Err()
}

func (rt *runtime) notice(text string) {
	if text == "" {
		return
	}
	rt.notices = append(rt.notices, text)
	if !rt.flags.json {
		fmt.Fprintf(rt.err, "%s %s\n", SuccessStyle.Render("[OK]"), text)
	}
}

// emit writes data as a JSON response in --json mode and calls human
// otherwise.
func (rt *runtime) emit(command string, data any, human func(w io.Writer)) error {
	if rt.flags.json {
		resp := NewJSONResponse(command, data)
		resp.Notices = rt.notices
		return resp.Print(rt.out)
	}
	if human != nil {
		human(rt.out)
	}
	return nil
}

// confirm asks before a destructive action.
func (rt *runtime) confirm(prompt string) error {
	skip := rt.flags.confirm
	if rt.cfg != nil && !rt.cfg.UI.ConfirmDestructive {
		skip = true
	}
	return RequireConfirmation(prompt, ConfirmationOptions{
		ConfirmFlag: skip,
		JSONMode:    rt.flags.json,
		Interactive: IsTTY(rt.in),
		In:          rt.in,
		Out:         rt.err,
	})
}

// ctx returns a context bounded by the configured request timeout.
func (rt *runtime) ctx() (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if rt.cfg != nil {
		timeout = rt.cfg.Backend.Timeout()
	}
	return context.WithTimeout(context.Background(), timeout)
}
