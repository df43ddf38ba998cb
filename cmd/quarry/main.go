package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quarry/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Incremental Rust code analysis toolkit",
	Long:  `Quarry builds and queries a position-independent IR of Rust workspaces`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(bodyCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(implsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
