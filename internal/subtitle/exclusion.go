package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Exclusions is a set of literal substrings. A caption block is suppressed
// in full when any of its lines contains any of them.
type Exclusions struct {
	patterns []string
}

// LoadExclusions reads an exclusion list from disk. An empty path or a
// missing file yields an empty list; conversion then keeps every block.
func LoadExclusions(path string) (Exclusions, error) {
	if strings.TrimSpace(path) == "" {
		return Exclusions{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Exclusions{}, nil
		}
		return Exclusions{}, fmt.Errorf("open exclusion list: %w", err)
	}
	defer file.Close()
	return ParseExclusions(file)
}

// ParseExclusions reads one literal substring per line, ignoring blank lines.
func ParseExclusions(r io.Reader) (Exclusions, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		pattern := strings.TrimSpace(scanner.Text())
		if pattern == "" {
			continue
		}
		patterns = append(patterns, pattern)
	}
	if err := scanner.Err(); err != nil {
		return Exclusions{}, fmt.Errorf("read exclusion list: %w", err)
	}
	return Exclusions{patterns: patterns}, nil
}

// Len reports the number of loaded patterns.
func (e Exclusions) Len() int { return len(e.patterns) }

// MatchBlock reports whether any line of the block contains any excluded
// substring. Explicit line breaks are never matched.
func (e Exclusions) MatchBlock(block Block) bool {
	if len(e.patterns) == 0 {
		return false
	}
	for _, line := range block.Lines {
		if line.Break() {
			continue
		}
		for _, pattern := range e.patterns {
			if strings.Contains(line.Text, pattern) {
				return true
			}
		}
	}
	return false
}
