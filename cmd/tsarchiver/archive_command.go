package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tsarchiver/internal/archive"
	"tsarchiver/internal/catalog"
	"tsarchiver/internal/logging"
	"tsarchiver/internal/media"
	"tsarchiver/internal/scrape"
	"tsarchiver/internal/subtitle"
)

func newArchiveCommand(cmdCtx *commandContext) *cobra.Command {
	var verifyDownloads bool

	cmd := &cobra.Command{
		Use:   "archive [directory]",
		Short: "Scan for new episodes and archive them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
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

			lock := flock.New(filepath.Join(dir, ".archive.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire archive lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another run holds the archive lock in %s", dir)
			}
			defer func() { _ = lock.Unlock() }()

			store, starts, err := openOrCreateCatalog(cmd, dir)
			if err != nil {
				return err
			}
			defer store.Close()

			// Fatal gates: no catalog write happens unless the catalog is
			// consistent and the pre-run backup verified.
			if err := store.CheckIntegrity(ctx); err != nil {
				return err
			}
			backupPath, err := store.Backup(ctx, filepath.Join(dir, catalog.BackupDirName))
			if err != nil {
				return err
			}
			logger.Info("backup verified", logging.String("backup", backupPath))

			exclusions, err := subtitle.LoadExclusions(cfg.Subtitles.ExcludeFile)
			if err != nil {
				return err
			}

			reconciler := archive.New(archive.Params{
				Config:          cfg,
				Store:           store,
				Fetcher:         scrape.NewClient(time.Duration(cfg.Scan.RequestTimeout)*time.Second, logger),
				Embedder:        media.NewEmbedder(logger),
				Prober:          media.NewProber(),
				Starts:          starts,
				Exclusions:      exclusions,
				Logger:          logger,
				Dir:             dir,
				VerifyDownloads: verifyDownloads,
			})

			if err := reconciler.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted!")
					return nil
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verifyDownloads, "check", "c", false, "Probe each new file after download")
	return cmd
}

// openOrCreateCatalog connects to the archive's catalog. A missing catalog
// asks for confirmation and is then created; start indices for shows without
// archived episodes are requested interactively by the returned provider.
func openOrCreateCatalog(cmd *cobra.Command, dir string) (*catalog.Store, archive.StartProvider, error) {
	found, err := catalog.Exists(dir)
	if err != nil {
		return nil, nil, err
	}
	prompter := newPrompter(cmd)

	if !found {
		create, err := prompter.confirmCreate()
		if err != nil {
			return nil, nil, err
		}
		if !create {
			return nil, nil, errors.New("no catalog database and creation declined")
		}
		store, err := catalog.Create(dir)
		if err != nil {
			return nil, nil, err
		}
		return store, prompter, nil
	}

	store, err := catalog.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	return store, prompter, nil
}
