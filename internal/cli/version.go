// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := VersionData{
				Version:   rt.opts.Version,
				GitCommit: rt.opts.GitCommit,
				BuildDate: rt.opts.BuildDate,
				GoVersion: goruntime.Version(),
			}
			return rt.emit("version", data, func(w io.Writer) {
				fmt.Fprintf(w, "projectmate %s\n", data.Version)
				field(w, "Commit", data.GitCommit)
				field(w, "Built", data.BuildDate)
				field(w, "Go", data.GoVersion)
				field(w, "Backend", rt.cfg.Backend.URL)
			})
		},
	}
}
