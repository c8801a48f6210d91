// Package verify checks catalogued files against the archive on disk:
// existence, optional deep media validity, and SHA-256 checksums. Missing
// checksums are computed and backfilled; that is the only catalog mutation
// the checker performs.
package verify

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tsarchiver/internal/catalog"
	"tsarchiver/internal/logging"
	"tsarchiver/internal/media"
)

// Status classifies the outcome for one catalogued file.
type Status string

const (
	StatusMissing    Status = "missing"
	StatusCorrupt    Status = "corrupt"
	StatusMatch      Status = "checksums match"
	StatusMismatch   Status = "checksum mismatch"
	StatusBackfilled Status = "checksum stored"
)

// Row is one checked file in the report.
type Row struct {
	Name   string
	Status Status
	Detail string
}

// Report summarizes one checker run.
type Report struct {
	Rows     []Row
	Failures int
}

// Checker iterates all catalogued videos of one archive root.
type Checker struct {
	store  *catalog.Store
	prober *media.Prober
	logger *slog.Logger
	dir    string
	deep   bool
}

// Params collects the collaborators of a Checker.
type Params struct {
	Store  *catalog.Store
	Prober *media.Prober
	Logger *slog.Logger
	Dir    string
	Deep   bool
}

// New constructs a Checker.
func New(params Params) *Checker {
	return &Checker{
		store:  params.Store,
		prober: params.Prober,
		logger: logging.NewComponentLogger(params.Logger, "verify"),
		dir:    params.Dir,
		deep:   params.Deep,
	}
}

// Run checks every catalogued file and returns the per-file report.
func (c *Checker) Run(ctx context.Context) (Report, error) {
	records, err := c.store.ListVideos(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		row := c.checkOne(ctx, record)
		if row.Status == StatusMissing || row.Status == StatusCorrupt || row.Status == StatusMismatch {
			report.Failures++
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, record catalog.VideoRecord) Row {
	path := filepath.Join(c.dir, record.Name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Row{Name: record.Name, Status: StatusMissing}
		}
		return Row{Name: record.Name, Status: StatusMissing, Detail: err.Error()}
	}

	if c.deep && c.prober != nil {
		if err := c.prober.DeepCheck(ctx, path); err != nil {
			return Row{Name: record.Name, Status: StatusCorrupt, Detail: err.Error()}
		}
	}

	checksum, err := media.Checksum(path)
	if err != nil {
		return Row{Name: record.Name, Status: StatusCorrupt, Detail: err.Error()}
	}

	if record.Checksum == "" {
		if err := c.store.SetChecksum(ctx, record.ID, checksum); err != nil {
			return Row{Name: record.Name, Status: StatusMismatch, Detail: err.Error()}
		}
		c.logger.Debug("checksum backfilled", logging.String("file", record.Name))
		return Row{Name: record.Name, Status: StatusBackfilled}
	}
	if checksum != record.Checksum {
		return Row{Name: record.Name, Status: StatusMismatch}
	}
	return Row{Name: record.Name, Status: StatusMatch}
}
