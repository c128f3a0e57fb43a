package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/registry"
	"github.com/protofab/protofab/internal/types"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all loaded definitions",
	Long: `List every component definition found in the configured paths with its
display name, setting count, and whether it carries state-machine behavior.

Examples:
  protofab list                   # List definitions in table format
  protofab list -f json           # Output as JSON
  protofab list -f yaml           # Output as YAML`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
}

type listEntry struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Settings    int    `json:"settings" yaml:"settings"`
	Stateful    bool   `json:"stateful" yaml:"stateful"`
	States      int    `json:"states,omitempty" yaml:"states,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	reg := registry.NewDefinitionRegistry()
	loader := registry.NewLoader(reg, nil, nil)
	if _, err := loader.LoadPaths(ctx, cfg.Components.Paths); err != nil {
		return err
	}

	entries := make([]listEntry, 0, reg.Count())
	for _, name := range reg.Names() {
		def, _ := reg.Get(name)
		entries = append(entries, newListEntry(def))
	}

	switch listFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(entries)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDISPLAY NAME\tSETTINGS\tSTATES")
		for _, e := range entries {
			states := "-"
			if e.Stateful {
				states = fmt.Sprintf("%d", e.States)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.DisplayName, e.Settings, states)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", listFormat)
	}
}

func newListEntry(def *types.CustomComponentDefinition) listEntry {
	entry := listEntry{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Settings:    len(def.Settings),
	}
	if def.Behavior != nil {
		entry.Stateful = true
		entry.States = len(def.Behavior.States)
	}
	return entry
}
