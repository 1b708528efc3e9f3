// Package cmd implements the drydoc CLI commands using Cobra.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/semio-ai/drydoc/internal/adapters/config"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile string
	Verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "drydoc",
	Short: "Pluggable documentation-site builder",
	Long: `drydoc builds static documentation sites from a declarative build graph.

Each node of the graph is handled by a generator: an external program,
installed on demand from a package repository, that produces a bundle of
pages and resources over an IPC channel. Bundles merge bottom-up into a
single site.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "settings", "", "path to a settings file (overrides the config.toml hierarchy)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output (env: DRYDOC_VERBOSE)")

	// Command groups for organized help output.
	rootCmd.AddGroup(
		&cobra.Group{ID: "building", Title: "Building"},
		&cobra.Group{ID: "packages", Title: "Packages"},
		&cobra.Group{ID: "serving", Title: "Serving"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
// Call this from main.go before Execute().
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("drydoc %s (commit: %s, built: %s)\n", version, commit, date),
	)
}

// initConfig sets up Viper configuration with the full hierarchy:
// CLI flags > DRYDOC_* env vars > project drydoc.toml > global XDG config.toml > defaults
func initConfig() error {
	viper.SetConfigType("toml")

	// 1. Built-in defaults.
	defaults := config.DefaultSettings()
	viper.SetDefault("repository.url", defaults.Repository.URL)
	viper.SetDefault("repository.dir", defaults.Repository.Dir)
	viper.SetDefault("build.config", defaults.Build.Config)
	viper.SetDefault("build.output", defaults.Build.Output)
	viper.SetDefault("serve.address", defaults.Serve.Address)
	viper.SetDefault("serve.port", defaults.Serve.Port)

	// 2. Read global config (lowest priority file).
	if cfgFile != "" {
		// --settings replaces the XDG config.toml lookup; the project
		// drydoc.toml is still merged over it below.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings file %s: %w", cfgFile, err)
		}
	} else {
		paths := config.NewXDGPathResolver()
		viper.SetConfigFile(paths.ConfigFile())
		_ = viper.ReadInConfig() // Silent fail if not found.
	}

	// 3. Merge project config (overrides global).
	viper.SetConfigFile("drydoc.toml")
	_ = viper.MergeInConfig() // Silent fail if not found.

	// 4. Environment variables override config files.
	viper.SetEnvPrefix("DRYDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if !Verbose {
		Verbose = viper.GetBool("verbose")
	}

	return nil
}
