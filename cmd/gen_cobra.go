package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/semio-ai/drydoc/internal/adapters/config"
)

var genCmd = &cobra.Command{
	Use:     "gen",
	Aliases: []string{"build", "g"},
	Short:   "Build the documentation site",
	Long:    "Build the documentation site: resolve the declaration tree, run generators and emit static HTML.",
	GroupID: "building",
	Example: `  drydoc gen
  drydoc gen --config docs/drydoc.yaml --output dist
  drydoc gen --repository-url https://example.com/packages`,
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringP("config", "c", "drydoc.yaml", "declaration file to generate from")
	genCmd.Flags().StringP("output", "o", "html", "output directory")
	defaults := config.DefaultSettings()
	genCmd.Flags().String("repository-url", defaults.Repository.URL, "package repository base URL")
	genCmd.Flags().String("repository-dir", defaults.Repository.Dir, "local package store directory")
	genCmd.Flags().Bool("compress-manifest", false, "embed the manifest LZ4-compressed")

	// Bind flags to Viper keys so config/env values apply when flags aren't set.
	_ = viper.BindPFlag("build.config", genCmd.Flags().Lookup("config"))
	_ = viper.BindPFlag("build.output", genCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("repository.url", genCmd.Flags().Lookup("repository-url"))
	_ = viper.BindPFlag("repository.dir", genCmd.Flags().Lookup("repository-dir"))
}

func runGen(cmd *cobra.Command, args []string) error {
	genCommand := NewGenCommand(viper.GetString("build.config")).
		WithOutputDir(viper.GetString("build.output")).
		WithRepositoryURL(viper.GetString("repository.url")).
		WithRepositoryDir(viper.GetString("repository.dir"))

	if compress, _ := cmd.Flags().GetBool("compress-manifest"); compress {
		genCommand.WithCompressedManifest(true)
	}

	return genCommand.Execute(cmd.Context())
}
