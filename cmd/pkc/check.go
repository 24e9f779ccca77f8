package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate kernel files without writing artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		opts := gatherOptions(cmd)
		files, err := resolveInputs(&opts, args)
		if err != nil {
			return err
		}

		d := driver.New(driver.Options{
			Jobs:           opts.jobs,
			MaxDiagnostics: opts.maxDiag,
			Timer:          opts.timer,
		})
		results := d.Compile(cmd.Context(), files)
		failed := reportResults(cmd, results, opts)
		if opts.timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), opts.timer.Summary())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d kernel files failed", failed, len(files))
		}
		return nil
	},
}
