// Package media wraps the external tooling used on downloaded videos:
// ffmpeg for muxing subtitles into the container, exiftool for metadata
// tagging, ffprobe for deep validity checks, and SHA-256 checksumming.
package media
