package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/engine"
	"github.com/protofab/protofab/internal/icons"
	"github.com/protofab/protofab/internal/registry"
	"github.com/protofab/protofab/internal/renderer"
)

var (
	renderOutput string
	renderProps  string
)

var renderCmd = &cobra.Command{
	Use:     "render <name>",
	Aliases: []string{"r"},
	Short:   "Render a definition to static HTML",
	Long: `Render one definition to a static HTML snapshot: the template evaluated
against its default props and the behavior's initial state, without the
interactive preview attributes.

Examples:
  protofab render counter                       # Write HTML to stdout
  protofab render counter -o counter.html       # Write HTML to a file
  protofab render counter --props '{"label":"Hits"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default stdout)")
	renderCmd.Flags().StringVar(&renderProps, "props", "", "Instance props as a JSON object, overriding defaultProps")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	name := args[0]
	def, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("definition %q not found in %v", name, cfg.Components.Paths)
	}

	var props map[string]any
	if renderProps != "" {
		if err := json.Unmarshal([]byte(renderProps), &props); err != nil {
			return fmt.Errorf("invalid --props JSON: %w", err)
		}
	}

	instance := engine.NewInstance(def, props, engine.Hooks{})
	html := renderer.New(icons.NewRegistry()).RenderInstance(instance, renderer.Options{})

	if renderOutput == "" {
		fmt.Println(html)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}
	fmt.Printf("Wrote %s\n", renderOutput)
	return nil
}
