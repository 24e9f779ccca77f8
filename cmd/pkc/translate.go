package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pkc/internal/driver"
)

var (
	translateOut     string
	translateWatch   bool
	translateNoCache bool
)

func init() {
	translateCmd.Flags().StringVarP(&translateOut, "out", "o", "", "artifact output directory (default from pkc.toml, else pk_cpp)")
	translateCmd.Flags().BoolVar(&translateWatch, "watch", false, "recompile whenever a kernel file changes")
	translateCmd.Flags().BoolVar(&translateNoCache, "no-cache", false, "skip the artifact cache")
}

var translateCmd = &cobra.Command{
	Use:   "translate [files...]",
	Short: "Translate kernel files into native artifacts",
	Long: `Translate compiles each kernel file into a Kokkos functor header and a
pybind11 bindings source. Without arguments the kernel files come from
pkc.toml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		opts := gatherOptions(cmd)
		files, err := resolveInputs(&opts, args)
		if err != nil {
			return err
		}

		outDir := translateOut
		if outDir == "" {
			if opts.manifest != nil {
				outDir = opts.manifest.OutDir()
			} else {
				outDir = "pk_cpp"
			}
		}

		var cache *driver.DiskCache
		if !translateNoCache {
			// A broken cache dir degrades to uncached compilation.
			cache, _ = driver.OpenDiskCache("pkc")
		}
		d := driver.New(driver.Options{
			Jobs:           opts.jobs,
			MaxDiagnostics: opts.maxDiag,
			Cache:          cache,
			Timer:          opts.timer,
		})

		emit := func(results []driver.Result) int {
			failed := reportResults(cmd, results, opts)
			for i := range results {
				r := &results[i]
				if r.Failed() {
					continue
				}
				if err := driver.WriteArtifacts(outDir, r); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, err)
					failed++
				}
			}
			return failed
		}

		if translateWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := d.Watch(ctx, files, func(results []driver.Result) {
				emit(results)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		failed := emit(d.Compile(cmd.Context(), files))
		if opts.timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), opts.timer.Summary())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d kernel files failed", failed, len(files))
		}
		return nil
	},
}
