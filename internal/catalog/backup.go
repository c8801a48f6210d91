package catalog

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupDirName is the snapshot directory inside an archive root.
const BackupDirName = "backups"

// Backup snapshots the live catalog into targetDir as <unix-ts>.db.zip. The
// snapshot is taken with VACUUM INTO, compressed, and the compressed archive
// is verified by decompressing it fully and comparing sizes. Only after
// verification succeeds is the uncompressed intermediate removed; a failed
// verification leaves both artifacts for inspection and returns
// ErrBackupVerification. Callers must not mutate the catalog after a failed
// backup.
func (s *Store) Backup(ctx context.Context, targetDir string) (string, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backup directory: %w", err)
	}

	stamp := time.Now().Unix()
	snapshotPath := filepath.Join(targetDir, fmt.Sprintf("%d.db", stamp))
	zipPath := snapshotPath + ".zip"

	// VACUUM INTO takes a filename expression, not a bind parameter in all
	// engines; the path comes from our own directory layout, never from data.
	quoted := strings.ReplaceAll(snapshotPath, "'", "''")
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO '"+quoted+"'"); err != nil {
		return "", fmt.Errorf("snapshot catalog: %w", err)
	}

	if err := compressFile(snapshotPath, zipPath); err != nil {
		_ = os.Remove(zipPath)
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	if err := verifyZip(zipPath, filepath.Base(snapshotPath), snapshotPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupVerification, err)
	}

	if err := os.Remove(snapshotPath); err != nil {
		return "", fmt.Errorf("remove snapshot intermediate: %w", err)
	}
	return zipPath, nil
}

func compressFile(sourcePath, zipPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer source.Close()

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	writer := zip.NewWriter(out)

	entry, err := writer.Create(filepath.Base(sourcePath))
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := io.Copy(entry, source); err != nil {
		_ = out.Close()
		return fmt.Errorf("write zip entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finalize zip: %w", err)
	}
	return out.Close()
}

// verifyZip decompresses the archive completely, which checks the stored
// CRCs, and compares the decompressed size against the snapshot on disk.
func verifyZip(zipPath, wantEntry, snapshotPath string) error {
	info, err := os.Stat(snapshotPath)
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	if len(reader.File) != 1 {
		return fmt.Errorf("expected 1 entry, found %d", len(reader.File))
	}
	entry := reader.File[0]
	if entry.Name != wantEntry {
		return fmt.Errorf("unexpected entry %q", entry.Name)
	}

	contents, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}
	defer contents.Close()

	size, err := io.Copy(io.Discard, contents)
	if err != nil {
		return fmt.Errorf("decompress entry: %w", err)
	}
	if size != info.Size() {
		return fmt.Errorf("size mismatch: snapshot %d bytes, archive holds %d", info.Size(), size)
	}
	return nil
}
