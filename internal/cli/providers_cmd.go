// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newProvidersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Aliases: []string{"provider"},
		Short:   "Manage AI providers",
	}
	cmd.AddCommand(
		newProvidersListCmd(rt),
		newProvidersShowCmd(rt),
		newProvidersSaveCmd(rt),
		newProvidersDeleteCmd(rt),
	)
	return cmd
}

func newProvidersListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.run(rt.app.Editor.ReloadProviders()); err != nil {
				return err
			}
			providers := rt.app.Caches.Providers.Items()
			return rt.emit("providers list", providers, func(w io.Writer) {
				if len(providers) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No providers configured."))
					return
				}
				t := newTable("ID", "NAME", "KEY", "API URL")
				for _, p := range providers {
					key := "no"
					if p.HasAPIKey {
						key = "yes"
					}
					t.add(strconv.Itoa(p.ID), p.Name, key, p.APIURL)
				}
				t.render(w)
			})
		},
	}
}

// ProviderData is the --json result of providers show.
type ProviderData struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key,omitempty"`
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "-"
	case len(key) <= 8:
		return "********"
	default:
		return key[:4] + "..." + key[len(key)-4:]
	}
}

func newProvidersShowCmd(rt *runtime) *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if _, err := rt.run(rt.app.Editor.EditProvider(id)); err != nil {
				return err
			}
			form := rt.app.Editor.ProviderForm()
			key := maskKey(form.APIKey)
			if reveal {
				key = form.APIKey
			}
			data := ProviderData{ID: form.ID, Name: form.Name, APIURL: form.APIURL}
			if reveal {
				data.APIKey = form.APIKey
			}
			return rt.emit("providers show", data, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render(form.Name))
				field(w, "ID", strconv.Itoa(form.ID))
				field(w, "API URL", form.APIURL)
				field(w, "API key", key)
			})
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the API key in full")
	return cmd
}

func newProvidersSaveCmd(rt *runtime) *cobra.Command {
	var id int
	var name, apiURL, apiKey string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a provider, or update one with --id",
		Long: `Create a provider, or update one with --id.

When updating, flags that are not given keep their stored values and the
API key is left unchanged unless --key is passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := rt.app.Editor
			if id < 0 {
				return NewValidationError("id", strconv.Itoa(id), "must be positive")
			}
			editor.NewProvider()
			if id > 0 {
				if _, err := rt.run(editor.EditProvider(id)); err != nil {
					return err
				}
			}
			form := editor.ProviderForm()
			if id > 0 && !cmd.Flags().Changed("key") {
				form.APIKey = ""
			}
			if cmd.Flags().Changed("name") {
				form.Name = name
			}
			if cmd.Flags().Changed("url") {
				form.APIURL = apiURL
			}
			if cmd.Flags().Changed("key") {
				form.APIKey = apiKey
			}

			c, err := editor.SaveProvider(form)
			if err != nil {
				return err
			}
			return rt.mutate("providers save", c)
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "provider to update")
	cmd.Flags().StringVar(&name, "name", "", "provider name")
	cmd.Flags().StringVar(&apiURL, "url", "", "provider API URL")
	cmd.Flags().StringVar(&apiKey, "key", "", "provider API key")
	return cmd
}

func newProvidersDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if _, err := rt.run(rt.app.Editor.ReloadProviders()); err != nil {
				return err
			}
			if err := rt.app.Editor.RequestDeleteProvider(id); err != nil {
				return err
			}
			return rt.confirmDelete("providers delete")
		},
	}
}
