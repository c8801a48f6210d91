package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tsarchiver/internal/logging"
)

const (
	ffmpegCommand   = "ffmpeg"
	exiftoolCommand = "exiftool"
)

// Tags is the metadata set written into a video container.
type Tags struct {
	Album             string
	Title             string
	ContentCreateDate string
	LongDescription   string
	Comment           *string
}

// Embedder muxes subtitles and writes metadata into downloaded videos.
type Embedder struct {
	logger *slog.Logger
	run    commandRunner
}

// NewEmbedder constructs an Embedder.
func NewEmbedder(logger *slog.Logger) *Embedder {
	return &Embedder{
		logger: logging.NewComponentLogger(logger, "embed"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner injects a custom command runner for tests.
func (e *Embedder) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Embed muxes the SRT document (when present) into the video as a mov_text
// track, then rewrites the container metadata. The mux is atomic: ffmpeg
// writes a temporary file that replaces the original on success.
func (e *Embedder) Embed(ctx context.Context, videoPath, srt string, tags Tags) error {
	if strings.TrimSpace(srt) != "" {
		if err := e.muxSubtitles(ctx, videoPath, srt); err != nil {
			return err
		}
	}
	if err := e.run(ctx, exiftoolCommand, "-all=", "-overwrite_original", videoPath); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	if err := e.run(ctx, exiftoolCommand, e.buildTagArgs(videoPath, tags)...); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	e.logger.Debug("metadata embedded", logging.String("video", videoPath))
	return nil
}

func (e *Embedder) muxSubtitles(ctx context.Context, videoPath, srt string) error {
	stem := strings.TrimSuffix(videoPath, ".mp4")
	srtPath := stem + ".srt"
	tmpPath := stem + "_tmp.mp4"

	if err := os.WriteFile(srtPath, []byte(srt), 0o644); err != nil {
		return fmt.Errorf("write subtitle sidecar: %w", err)
	}
	defer os.Remove(srtPath)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "panic",
		"-i", videoPath,
		"-sub_charenc", "UTF-8", "-i", srtPath,
		"-map", "0:v", "-map", "0:a", "-c", "copy",
		"-map", "1", "-c:s:0", "mov_text",
		"-metadata:s:s:0", "language=deu",
		"-metadata:s:a:0", "language=deu",
		tmpPath,
	}
	if err := e.run(ctx, ffmpegCommand, args...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("mux subtitles: %w", err)
	}
	if err := os.Rename(tmpPath, videoPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace video after mux: %w", err)
	}
	return nil
}

func (e *Embedder) buildTagArgs(videoPath string, tags Tags) []string {
	args := []string{
		"-overwrite_original",
		"-Artist=ARD",
		"-Album=" + tags.Album,
		"-Title=" + tags.Title,
		"-TVShow=" + tags.Album,
		"-TVNetworkName=Das Erste",
		"-Genre=Nonfiction",
		"-HDVideo=Yes",
		"-MediaType=TV Show",
	}
	if tags.ContentCreateDate != "" {
		args = append(args, "-ContentCreateDate="+tags.ContentCreateDate)
	}
	if tags.LongDescription != "" {
		args = append(args, "-LongDescription="+tags.LongDescription)
	}
	if tags.Comment != nil && *tags.Comment != "" {
		args = append(args, "-Comment="+*tags.Comment)
	}
	return append(args, videoPath)
}
