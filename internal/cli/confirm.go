// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmation flow for destructive commands:
//  1. --confirm proceeds without prompting
//  2. --json requires --confirm (no interactive prompts in JSON mode)
//  3. a non-terminal stdin requires --confirm (can't prompt)
//  4. otherwise the user is asked [y/N]

// ErrConfirmationRequired is returned when a prompt is needed but not possible.
var ErrConfirmationRequired = errors.New("confirmation required")

// ConfirmationOptions controls RequireConfirmation.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed
	ConfirmFlag bool
	// JSONMode indicates --json was passed
	JSONMode bool
	// Interactive reports whether In is a terminal that can be prompted
	Interactive bool

	In  io.Reader
	Out io.Writer
}

// RequireConfirmation asks the user to confirm prompt. It returns ErrCancelled
// when the user declines.
func RequireConfirmation(prompt string, opts ConfirmationOptions) error {
	if opts.ConfirmFlag {
		return nil
	}
	if opts.JSONMode {
		return fmt.Errorf("%w: use --confirm flag for destructive actions in JSON mode", ErrConfirmationRequired)
	}
	if !opts.Interactive {
		return fmt.Errorf("%w: stdin is not a terminal; use --confirm flag", ErrConfirmationRequired)
	}

	ok, err := PromptYesNo(opts.In, opts.Out, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// PromptYesNo writes prompt followed by [y/N] and reads one line. Anything
// but y or yes is a no.
func PromptYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s %s ", prompt, DimStyle.Render("[y/N]:"))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes", nil
}
