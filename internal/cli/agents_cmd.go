// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/settings"
	"github.com/jeranaias/projectmate/internal/util"
)

func newAgentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Manage agent configurations",
	}
	cmd.AddCommand(
		newAgentsListCmd(rt),
		newAgentsTypesCmd(rt),
		newAgentsPromptCmd(rt),
		newAgentsSaveCmd(rt),
		newAgentsDeleteCmd(rt),
		newAgentsApplyAllCmd(rt),
	)
	return cmd
}

// AgentData is one agent config in --json output.
type AgentData struct {
	ID           int     `json:"id"`
	AgentType    string  `json:"agent_type"`
	ProviderID   int     `json:"provider_id"`
	Provider     string  `json:"provider"`
	ModelName    string  `json:"model_name"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

func newAgentsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agent configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.run(rt.app.Editor.ReloadSettings()); err != nil {
				return err
			}
			caches := rt.app.Caches
			var data []AgentData
			for _, a := range caches.AgentConfigs.Items() {
				data = append(data, AgentData{
					ID:           a.ID,
					AgentType:    a.AgentType,
					ProviderID:   a.ProviderID,
					Provider:     caches.ProviderName(a.ProviderID),
					ModelName:    a.ModelName,
					SystemPrompt: a.SystemPrompt,
					Temperature:  a.Temperature,
				})
			}
			return rt.emit("agents list", data, func(w io.Writer) {
				if len(data) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No agent configs yet."))
					return
				}
				t := newTable("ID", "AGENT TYPE", "PROVIDER", "MODEL", "TEMP", "PROMPT")
				for _, a := range data {
					t.add(strconv.Itoa(a.ID), a.AgentType, a.Provider, a.ModelName,
						strconv.FormatFloat(a.Temperature, 'g', -1, 64), util.Preview(a.SystemPrompt, 40))
				}
				t.render(w)
			})
		},
	}
}

func newAgentsTypesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the agent types the backend knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.run(rt.app.Editor.ReloadAgentTypes()); err != nil {
				return err
			}
			types := rt.app.Caches.AgentTypes.Items()
			return rt.emit("agents types", types, func(w io.Writer) {
				for _, t := range types {
					fmt.Fprintln(w, t)
				}
			})
		},
	}
}

func newAgentsPromptCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <agent-type>",
		Short: "Print the default system prompt of an agent type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := rt.defaultPrompt(args[0])
			if err != nil {
				return err
			}
			return rt.emit("agents prompt", map[string]string{"agent_type": args[0], "system_prompt": prompt}, func(w io.Writer) {
				fmt.Fprintln(w, prompt)
			})
		},
	}
}

func (rt *runtime) defaultPrompt(agentType string) (string, error) {
	c := rt.app.Editor.DefaultPrompt(agentType)
	if c == nil {
		return "", NewValidationError("agent-type", agentType, "must not be empty")
	}
	res, err := rt.run(c)
	if err != nil {
		return "", err
	}
	msgs := loop.Collect[settings.PromptMsg](res.Msgs)
	if len(msgs) == 0 {
		return "", nil
	}
	return msgs[0].Prompt, nil
}

func newAgentsSaveCmd(rt *runtime) *cobra.Command {
	var (
		id          int
		agentType   string
		providerID  int
		modelName   string
		prompt      string
		temperature float64
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create an agent config, or update one with --id",
		Long: `Create an agent config, or update one with --id.

A new config without --prompt starts from the agent type's default system
prompt. When updating, flags that are not given keep their stored values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := rt.app.Editor
			if id < 0 {
				return NewValidationError("id", strconv.Itoa(id), "must be positive")
			}
			// Validation needs the type enumeration and the provider list.
			if _, err := rt.run(editor.ReloadSettings()); err != nil {
				return err
			}

			editor.NewAgentConfig()
			if id > 0 {
				if _, err := rt.run(editor.EditAgentConfig(id)); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("prompt") && agentType != "" {
				if _, err := rt.defaultPrompt(agentType); err != nil {
					return err
				}
			}

			form := editor.AgentForm()
			flags := cmd.Flags()
			if flags.Changed("type") {
				form.AgentType = agentType
			}
			if flags.Changed("provider") {
				form.ProviderID = providerID
			}
			if flags.Changed("model") {
				form.ModelName = modelName
			}
			if flags.Changed("prompt") {
				form.SystemPrompt = prompt
			}
			if flags.Changed("temperature") {
				form.Temperature = settings.Temperature(temperature)
			}

			c, err := editor.SaveAgentConfig(form)
			if err != nil {
				return err
			}
			return rt.mutate("agents save", c)
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "agent config to update")
	cmd.Flags().StringVar(&agentType, "type", "", "agent type (see: projectmate agents types)")
	cmd.Flags().IntVar(&providerID, "provider", 0, "provider id")
	cmd.Flags().StringVar(&modelName, "model", "", "model name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "system prompt")
	cmd.Flags().Float64Var(&temperature, "temperature", model.DefaultTemperature, "sampling temperature, 0 to 2")
	return cmd
}

func newAgentsDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if _, err := rt.run(rt.app.Editor.ReloadAgentConfigs()); err != nil {
				return err
			}
			if err := rt.app.Editor.RequestDeleteAgentConfig(id); err != nil {
				return err
			}
			return rt.confirmDelete("agents delete")
		},
	}
}

func newAgentsApplyAllCmd(rt *runtime) *cobra.Command {
	var providerID int
	var modelName string
	cmd := &cobra.Command{
		Use:   "apply-all",
		Short: "Point every agent config at one provider and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.app.Editor.ApplyModelToAll(providerID, modelName)
			if err != nil {
				return err
			}
			return rt.mutate("agents apply-all", c)
		},
	}
	cmd.Flags().IntVar(&providerID, "provider", 0, "provider id (required)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name (required)")
	return cmd
}
