package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tsarchiver/internal/catalog"
	"tsarchiver/internal/media"
	"tsarchiver/internal/verify"
)

func newCheckCommand(cmdCtx *commandContext) *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "check [directory]",
		Short: "Check integrity of archived files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			dir, err := resolveDir(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := catalog.Open(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			checker := verify.New(verify.Params{
				Store:  store,
				Prober: media.NewProber(),
				Logger: logger,
				Dir:    dir,
				Deep:   deep,
			})
			report, err := checker.Run(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted!")
					return nil
				}
				return err
			}

			rows := make([][]string, 0, len(report.Rows))
			for _, row := range report.Rows {
				rows = append(rows, []string{row.Name, string(row.Status), row.Detail})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"File", "Status", "Detail"}, rows))

			if report.Failures > 0 {
				return fmt.Errorf("%d of %d files failed the check", report.Failures, len(report.Rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&deep, "check", "c", false, "Deep-check media validity with ffprobe")
	return cmd
}
