package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pkgCmd = &cobra.Command{
	Use:     "pkg",
	Short:   "Manage generator packages",
	Long:    "Inspect and install generator packages from the package repository.",
	GroupID: "packages",
}

var pkgGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Install a generator package",
	Args:  cobra.ExactArgs(1),
	Example: `  drydoc pkg get copy
  drydoc pkg get markdown --version "^1.2"`,
	RunE: runPkgGet,
}

var pkgInstalledCmd = &cobra.Command{
	Use:   "installed",
	Short: "List installed packages",
	Args:  cobra.NoArgs,
	RunE:  runPkgInstalled,
}

func init() {
	rootCmd.AddCommand(pkgCmd)
	pkgCmd.AddCommand(pkgGetCmd)
	pkgCmd.AddCommand(pkgInstalledCmd)

	pkgGetCmd.Flags().String("version", "*", "version requirement")
	pkgInstalledCmd.Flags().String("package", "", "only list versions of this package")
}

func runPkgGet(cmd *cobra.Command, args []string) error {
	version, _ := cmd.Flags().GetString("version")
	return NewPkgGetCommand(args[0]).
		WithVersionReq(version).
		WithRepository(viper.GetString("repository.url"), viper.GetString("repository.dir")).
		Execute(cmd.Context())
}

func runPkgInstalled(cmd *cobra.Command, args []string) error {
	pkgFilter, _ := cmd.Flags().GetString("package")
	return NewPkgInstalledCommand().
		WithPackageFilter(pkgFilter).
		WithRepository(viper.GetString("repository.url"), viper.GetString("repository.dir")).
		Execute(cmd.Context())
}
