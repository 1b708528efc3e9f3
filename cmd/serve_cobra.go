package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve a built site locally",
	GroupID: "serving",
	Example: `  drydoc serve
  drydoc serve --dir dist --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("dir", "d", "html", "directory to serve")
	serveCmd.Flags().StringP("address", "a", "127.0.0.1", "server address")
	serveCmd.Flags().IntP("port", "p", 8888, "server port")

	_ = viper.BindPFlag("serve.address", serveCmd.Flags().Lookup("address"))
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	return NewServeCommand(dir).
		WithAddress(viper.GetString("serve.address")).
		WithPort(viper.GetInt("serve.port")).
		Execute(cmd.Context())
}
