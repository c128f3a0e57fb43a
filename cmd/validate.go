package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/errors"
	"github.com/protofab/protofab/internal/registry"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:     "validate [path...]",
	Aliases: []string{"v"},
	Short:   "Validate definition files",
	Long: `Validate component definition files against the definition contract:
required fields, settings backed by defaultProps, known element and action
types, and state-machine consistency (existing initial state, resolvable
transition targets).

Exits non-zero when any definition fails validation.

Examples:
  protofab validate                 # Validate configured component paths
  protofab validate card.json       # Validate one file
  protofab validate ./components    # Validate a directory
  protofab validate -f json         # Machine-readable report`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

type validationReport struct {
	Valid  int                      `json:"valid"`
	Errors []errors.DefinitionError `json:"errors"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	paths := cfg.Components.Paths
	if len(args) > 0 {
		paths = args
	}

	ctx := context.Background()
	reg := registry.NewDefinitionRegistry()
	loader := registry.NewLoader(reg, errors.NewErrorCollector(), nil)

	loaded, err := loader.LoadPaths(ctx, paths)
	if err != nil {
		return err
	}

	report := validationReport{
		Valid:  loaded,
		Errors: loader.Collector().GetErrors(),
	}

	switch validateFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	case "text":
		fmt.Printf("%d definition(s) valid\n", report.Valid)
		for _, defErr := range report.Errors {
			fmt.Printf("  %s\n", defErr.Error())
		}
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", validateFormat)
	}

	if len(report.Errors) > 0 {
		return fmt.Errorf("%d validation problem(s) found", len(report.Errors))
	}
	return nil
}
