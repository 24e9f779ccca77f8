package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pkc",
	Short: "Static kernel translator",
	Long:  `pkc translates annotated Python kernels into Kokkos C++ functors and pybind11 binding glue`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("jobs", runtime.NumCPU(), "maximum concurrent compilations")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
