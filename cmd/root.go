// Package cmd provides the command-line interface for protofab with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. PROTOFAB_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (PROTOFAB_SERVER_PORT, etc.)
//	4. Configuration files (.protofab.yml) - lowest priority
//
// Environment Variables:
//
//	PROTOFAB_CONFIG_FILE: Path to custom configuration file
//	PROTOFAB_SERVER_PORT: Override server port
//	PROTOFAB_SERVER_HOST: Override server host
//	PROTOFAB_DEVELOPMENT_HOT_RELOAD: Enable/disable hot reload
//	And more following the PROTOFAB_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "protofab",
	Short: "A preview and validation tool for declarative component definitions",
	Long: `Protofab loads JSON component definitions (template trees with optional
state-machine behavior), validates them, and previews them live in the browser
with hot reload.

Key Features:
  • Definition loading and validation
  • Hot reload development server
  • Live state-machine interaction in the browser
  • Static HTML rendering for snapshots
  • WebSocket-based live updates

Quick Start:
  protofab serve                  Start the preview server
  protofab list                   List loaded definitions
  protofab validate card.json     Validate definition files
  protofab render counter         Render a definition to HTML`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept underscores as dashes in flag names, e.g. --no_open.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .protofab.yml, can also use PROTOFAB_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. PROTOFAB_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .protofab.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PROTOFAB_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".protofab")
	}

	// Enable automatic environment variable binding with PROTOFAB_ prefix
	// Examples: PROTOFAB_SERVER_PORT, PROTOFAB_DEVELOPMENT_HOT_RELOAD
	viper.SetEnvPrefix("PROTOFAB")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files are not fatal; defaults apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
