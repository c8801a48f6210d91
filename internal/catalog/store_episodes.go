package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// dimension pairs the fixed statements for one lookup table. Table names are
// never interpolated from data; each dimension carries its own static SQL.
type dimension struct {
	selectSQL string
	insertSQL string
}

var (
	dimShows = dimension{
		selectSQL: "SELECT id FROM shows WHERE name = ?",
		insertSQL: "INSERT INTO shows (name) VALUES (?)",
	}
	dimPresenters = dimension{
		selectSQL: "SELECT id FROM presenters WHERE name = ?",
		insertSQL: "INSERT INTO presenters (name) VALUES (?)",
	}
)

func upsertDimension(ctx context.Context, tx *sql.Tx, dim dimension, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, dim.selectSQL, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("look up dimension row: %w", err)
	}
	result, err := tx.ExecContext(ctx, dim.insertSQL, name)
	if err != nil {
		return 0, fmt.Errorf("insert dimension row: %w", err)
	}
	return result.LastInsertId()
}

// InsertEpisode persists one episode: dimension upserts, the optional
// subtitle row, and the fact row run as a single transaction. Any failure
// rolls the whole episode back and surfaces as ErrWrite.
func (s *Store) InsertEpisode(ctx context.Context, episode Episode, subtitles *SubtitleBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	showID, err := upsertDimension(ctx, tx, dimShows, episode.Show)
	if err != nil {
		return fmt.Errorf("%w: show %q: %v", ErrWrite, episode.Show, err)
	}

	var presenterID *int64
	if episode.Presenter != nil && strings.TrimSpace(*episode.Presenter) != "" {
		id, err := upsertDimension(ctx, tx, dimPresenters, *episode.Presenter)
		if err != nil {
			return fmt.Errorf("%w: presenter %q: %v", ErrWrite, *episode.Presenter, err)
		}
		presenterID = &id
	}

	// No subtitles available is a normal outcome: subtitleID stays NULL,
	// never an empty placeholder row.
	var subtitleID *int64
	if subtitles != nil && subtitles.Raw != "" {
		result, err := tx.ExecContext(ctx,
			"INSERT INTO subtitles (raw, transcript, srt) VALUES (?, ?, ?)",
			subtitles.Raw, subtitles.Transcript, subtitles.SRT,
		)
		if err != nil {
			return fmt.Errorf("%w: subtitles: %v", ErrWrite, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: subtitles id: %v", ErrWrite, err)
		}
		subtitleID = &id
	}

	var topics *string
	if strings.TrimSpace(episode.Topics) != "" {
		topics = &episode.Topics
	}
	var note *string
	if episode.Note != nil && strings.TrimSpace(*episode.Note) != "" {
		note = episode.Note
	}
	var checksum *string
	if episode.Checksum != "" {
		checksum = &episode.Checksum
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO videos (datetime, showID, presenterID, subtitleID, topics, note, timestamp, name, articleID, videoID, checksum)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		episode.DateTime, showID, presenterID, subtitleID, topics, note,
		episode.Timestamp, episode.VideoName, episode.ArticleID, episode.VideoID, checksum,
	)
	if err != nil {
		return fmt.Errorf("%w: video row: %v", ErrWrite, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrWrite, err)
	}
	return nil
}

// HighWaterMark returns the highest archived article index for a show. The
// second return is false when the show has no archived episodes yet.
func (s *Store) HighWaterMark(ctx context.Context, showName string) (int64, bool, error) {
	var mark sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(articleID) FROM videos
		 INNER JOIN shows ON shows.id = videos.showID
		 WHERE shows.name = ?`, showName,
	).Scan(&mark)
	if err != nil {
		return 0, false, fmt.Errorf("query high-water mark: %w", err)
	}
	if !mark.Valid {
		return 0, false, nil
	}
	return mark.Int64, true, nil
}

// UniqueVideoName resolves filename collisions by probing the catalog and
// appending a numeric suffix before the extension until the name is free.
func (s *Store) UniqueVideoName(ctx context.Context, base string) (string, error) {
	ext := ""
	stem := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		stem, ext = base[:i], base[i:]
	}
	name := base
	for suffix := 2; ; suffix++ {
		var count int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM videos WHERE name = ?", name,
		).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("probe video name: %w", err)
		}
		if count == 0 {
			return name, nil
		}
		name = fmt.Sprintf("%s_%d%s", stem, suffix, ext)
	}
}

// CountVideos reports the number of persisted episodes.
func (s *Store) CountVideos(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM videos").Scan(&count); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// ListVideos returns every catalogued video in insertion order.
func (s *Store) ListVideos(ctx context.Context) ([]VideoRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(checksum, '') FROM videos ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var records []VideoRecord
	for rows.Next() {
		var record VideoRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Checksum); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return records, nil
}

// SetChecksum backfills a missing checksum for one video row. Used only by
// the integrity checker.
func (s *Store) SetChecksum(ctx context.Context, id int64, checksum string) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE videos SET checksum = ? WHERE id = ?", checksum, id,
	); err != nil {
		return fmt.Errorf("update checksum: %w", err)
	}
	return nil
}
