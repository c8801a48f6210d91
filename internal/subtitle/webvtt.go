package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

const (
	webvttHeader = "WEBVTT"
	// Cue identifiers in the broadcaster's WEBVTT exports are "c" followed
	// by a cue number.
	cueIdentifierPrefix = "c"
)

// ParseWebVTT decodes a WEBVTT document into caption blocks.
//
// The parser is a line state machine: the header and blank lines are
// skipped, a cue-identifier line commits any in-progress block, a time-code
// line sets begin/end, and every other line appends caption text. Lines
// within one cue are joined with explicit line breaks.
func ParseWebVTT(data []byte) ([]Block, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		blocks   []Block
		current  Block
		hasTimes bool
		sawTimes bool
	)
	commit := func() {
		if hasTimes && len(current.Lines) > 0 {
			blocks = append(blocks, current)
		}
		current = Block{}
		hasTimes = false
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, webvttHeader) {
			continue
		}
		if isCueIdentifier(line) {
			commit()
			continue
		}
		if strings.Contains(line, "-->") {
			parts := strings.SplitN(line, "-->", 2)
			begin := strings.TrimSpace(parts[0])
			end := strings.TrimSpace(parts[1])
			// Cue settings may trail the end time code.
			if i := strings.IndexAny(end, " \t"); i >= 0 {
				end = end[:i]
			}
			current.Begin, current.End = normalizeTimes(begin, end)
			hasTimes = true
			sawTimes = true
			continue
		}
		if len(current.Lines) > 0 {
			current.Lines = append(current.Lines, Line{Text: "\n"})
		}
		current.Lines = append(current.Lines, Line{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	commit()

	if !sawTimes {
		return nil, fmt.Errorf("%w: no cue content", ErrMalformedDocument)
	}
	return blocks, nil
}

// isCueIdentifier matches the broadcaster's cue naming, "c" followed by a
// cue number. WEBVTT allows arbitrary identifier lines, but the feeds only
// ever use this shape; anything else is treated as caption text.
func isCueIdentifier(line string) bool {
	rest, ok := strings.CutPrefix(line, cueIdentifierPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
