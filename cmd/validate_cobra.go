package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Validate a declaration tree",
	Long:    "Check the declaration tree for structural problems (missing ids, bad generator references, import cycles) without running any generator.",
	GroupID: "building",
	Example: `  drydoc validate
  drydoc validate --config docs/drydoc.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("config", "c", "drydoc.yaml", "declaration file to validate")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := viper.GetString("build.config")
	if flag, _ := cmd.Flags().GetString("config"); cmd.Flags().Changed("config") {
		configPath = flag
	}
	return NewValidateCommand(configPath).Execute(cmd.Context())
}
