// projectmate - terminal client for the projectmate assistant backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/cli"
	"github.com/jeranaias/projectmate/internal/core"
	uiapp "github.com/jeranaias/projectmate/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.Options{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		RunTUI:    runTUI,
	}))
}

// runTUI owns the terminal until the user quits.
func runTUI(app *core.App) error {
	m := uiapp.New(app)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
