// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
)

// ErrNoBackupStore is returned when no BackupWriter is configured.
var ErrNoBackupStore = errors.New("no backup store configured")

// BackupMsg reports where a backup was written.
type BackupMsg struct {
	Path string
	Err  error
}

// RestoreMsg reports the outcome of a restore.
type RestoreMsg struct {
	Result *model.StatusMessage
	Err    error
}

// Backup downloads the settings snapshot and stores the bytes unchanged.
func (e *Editor) Backup() tea.Cmd {
	gw, store := e.gw, e.cfg.Backups
	return e.run(func(ctx context.Context) tea.Msg {
		if store == nil {
			return BackupMsg{Err: ErrNoBackupStore}
		}
		data, err := gw.Backup(ctx)
		if err != nil {
			return BackupMsg{Err: err}
		}
		path, err := store.Save(data)
		return BackupMsg{Path: path, Err: err}
	})
}

// Restore uploads a snapshot. The data must parse as a snapshot with both
// sections present and is sent byte for byte.
func (e *Editor) Restore(data []byte) (tea.Cmd, error) {
	if _, err := model.ParseSnapshot(data); err != nil {
		return nil, err
	}
	raw := append([]byte(nil), data...)
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		res, err := gw.Restore(ctx, raw)
		return RestoreMsg{Result: res, Err: err}
	}), nil
}

// RestoreFile reads a snapshot from path and restores it.
func (e *Editor) RestoreFile(path string) (tea.Cmd, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return e.Restore(data)
}
