package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Build and export the manifest",
	Long:    "Build the declaration tree and write the merged manifest as JSON or YAML, without emitting the site.",
	GroupID: "building",
	Example: `  drydoc export
  drydoc export --format yaml --output manifest.yaml`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "json", "export format (json, yaml)")
	exportCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")

	_ = exportCmd.RegisterFlagCompletionFunc("format", completeExportFormats)
}

// completeExportFormats returns available export formats.
func completeExportFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"json\tPretty-printed JSON",
		"yaml\tYAML document",
	}, cobra.ShellCompDirectiveNoFileComp
}

func runExport(cmd *cobra.Command, args []string) error {
	genCommand := NewGenCommand(viper.GetString("build.config")).
		WithRepositoryURL(viper.GetString("repository.url")).
		WithRepositoryDir(viper.GetString("repository.dir"))

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	return NewExportCommand(genCommand).
		WithFormat(format).
		WithOutput(output).
		Execute(cmd.Context())
}
