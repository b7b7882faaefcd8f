// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/settings"
)

func newBackupCmd(rt *runtime) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save the providers and agent configs to a backup file",
		Long: `Download the settings snapshot (providers and agent configs) and save it
unchanged under the backup directory. Backups contain API keys and are
written owner-readable only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return rt.listBackups()
			}
			res, err := rt.run(rt.app.Editor.Backup())
			if err != nil {
				return err
			}
			var path string
			if msgs := loop.Collect[settings.BackupMsg](res.Msgs); len(msgs) > 0 {
				path = msgs[0].Path
			}
			return rt.emit("backup", BackupData{Path: path}, func(w io.Writer) {
				fmt.Fprintln(w, path)
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list saved backups instead of creating one")
	return cmd
}

func (rt *runtime) listBackups() error {
	metas, err := rt.app.Backups.List()
	if err != nil {
		return NewCommandError("backup", "list", err)
	}
	return rt.emit("backup", metas, func(w io.Writer) {
		if len(metas) == 0 {
			fmt.Fprintln(w, DimStyle.Render("No backups yet."))
			return
		}
		t := newTable("CREATED", "SIZE", "PATH")
		for _, m := range metas {
			t.add(m.CreatedAt.Format("2006-01-02 15:04:05"), strconv.FormatInt(m.Size, 10), m.Path)
		}
		t.render(w)
	})
}

func newRestoreCmd(rt *runtime) *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace providers and agent configs with a backup",
		Long: `Upload a settings snapshot to the backend. The file must contain both the
providers and agent_configs sections; it is sent byte for byte. Use --latest
to restore the most recent saved backup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			switch {
			case latest && len(args) == 1:
				return NewValidationError("file", args[0], "cannot be combined with --latest")
			case latest:
				meta, err := rt.app.Backups.Latest()
				if err != nil {
					return NewCommandError("restore", "find latest backup", err)
				}
				path = meta.Path
			case len(args) == 1:
				path = args[0]
			default:
				return NewValidationErrorWithExample("file", "", "a snapshot file or --latest is required", "projectmate restore --latest")
			}

			c, err := rt.app.Editor.RestoreFile(path)
			if err != nil {
				return err
			}
			if err := rt.confirm(fmt.Sprintf("Replace all providers and agent configs with %s?", path)); err != nil {
				return err
			}
			res, err := rt.run(c)
			if err != nil {
				return err
			}
			return rt.emit("restore", map[string]any{"path": path, "messages": res.Infos()}, nil)
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent saved backup")
	return cmd
}
