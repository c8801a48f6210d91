package subtitle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformedDocument reports a subtitle document missing required
	// structure (styling or paragraph container for EBU-TT-D, cue content
	// for WEBVTT).
	ErrMalformedDocument = errors.New("malformed subtitle document")

	// ErrUnknownStyle reports a span referencing a style id that the
	// document's styling block does not define. Fatal for the whole file;
	// there is no unstyled fallback.
	ErrUnknownStyle = errors.New("unknown style reference")
)

// Format identifies the declared source format of a subtitle payload.
// Selection is by declaration, never by content sniffing.
type Format string

const (
	FormatEBUTTD Format = "ebu-tt-d"
	FormatWebVTT Format = "webvtt"
)

// FormatForPath maps a subtitle file extension to its format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatEBUTTD, nil
	case ".vtt":
		return FormatWebVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle extension %q", filepath.Ext(path))
	}
}

// Line is one rendered unit inside a caption block. A bare "\n" text with no
// color is an explicit line break.
type Line struct {
	Text  string
	Color string
}

// Break returns true when the line is an explicit line break.
func (l Line) Break() bool {
	return l.Text == "\n" && l.Color == ""
}

// Block is the intermediate form of one timed caption: SRT-style time codes
// plus the ordered lines to render. A block with no lines is dropped by the
// generator.
type Block struct {
	Begin string
	End   string
	Lines []Line
}

// Parse decodes a subtitle payload in the declared format into caption
// blocks.
func Parse(format Format, data []byte) ([]Block, error) {
	switch format {
	case FormatEBUTTD:
		return ParseEBUTTD(data)
	case FormatWebVTT:
		return ParseWebVTT(data)
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", format)
	}
}
