package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pkc/internal/config"
	"pkc/internal/diagfmt"
	"pkc/internal/driver"
	"pkc/internal/observ"
)

type runOptions struct {
	jobs     int
	maxDiag  int
	quiet    bool
	colorOn  bool
	timer    *observ.Timer
	manifest *config.Manifest
}

func gatherOptions(cmd *cobra.Command) runOptions {
	jobs, _ := cmd.Flags().GetInt("jobs")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	quiet, _ := cmd.Flags().GetBool("quiet")
	timings, _ := cmd.Flags().GetBool("timings")
	mode, _ := cmd.Flags().GetString("color")

	colorOn := false
	switch mode {
	case "on":
		colorOn = true
	case "off":
	default:
		colorOn = isTerminal(os.Stdout)
	}
	// fatih/color guesses from the TTY; the flag overrides the guess.
	color.NoColor = !colorOn

	opts := runOptions{jobs: jobs, maxDiag: maxDiag, quiet: quiet, colorOn: colorOn}
	if timings {
		opts.timer = observ.NewTimer()
	}
	return opts
}

// resolveInputs turns CLI arguments into kernel files. With no arguments
// the project manifest supplies the source globs.
func resolveInputs(opts *runOptions, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	manifest, ok, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no kernel files given and no %s found", config.ManifestName)
	}
	opts.manifest = manifest

	if err := checkRuntimeConstraint(manifest); err != nil {
		return nil, err
	}
	files, err := manifest.SourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: source globs matched no files", manifest.Path)
	}
	return files, nil
}

// checkRuntimeConstraint validates the manifest's runtime constraint
// against the version advertised by the environment, when both exist.
func checkRuntimeConstraint(manifest *config.Manifest) error {
	detected := os.Getenv("KOKKOS_VERSION")
	if detected == "" || manifest.Config.Runtime.Kokkos == "" {
		return nil
	}
	return manifest.CheckRuntime(detected)
}

// reportResults prints diagnostics and per-file status, returning the
// number of failed compilations.
func reportResults(cmd *cobra.Command, results []driver.Result, opts runOptions) int {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	prettyOpts := diagfmt.PrettyOpts{Color: opts.colorOn, ShowNotes: true}

	failed := 0
	for i := range results {
		r := &results[i]
		if r.Bag != nil && r.Bag.Len() > 0 && r.Files != nil {
			diagfmt.Pretty(errOut, r.Bag, r.Files, prettyOpts)
		}
		if r.Failed() {
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if opts.quiet {
			continue
		}
		if r.Cached {
			fmt.Fprintf(out, "%s: up to date (cached)\n", r.Path)
		} else {
			fmt.Fprintf(out, "%s: ok (entity %s)\n", r.Path, r.Entity)
		}
	}
	return failed
}
