package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild the site on changes",
	GroupID: "building",
	Example: `  drydoc watch
  drydoc watch --debounce 250`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("debounce", 500, "debounce delay in milliseconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	genCommand := NewGenCommand(viper.GetString("build.config")).
		WithOutputDir(viper.GetString("build.output")).
		WithRepositoryURL(viper.GetString("repository.url")).
		WithRepositoryDir(viper.GetString("repository.dir"))

	watchCommand := NewWatchCommand(genCommand)
	if debounce, _ := cmd.Flags().GetInt("debounce"); debounce > 0 {
		watchCommand.WithDebounce(time.Duration(debounce) * time.Millisecond)
	}

	return watchCommand.Execute(cmd.Context())
}
