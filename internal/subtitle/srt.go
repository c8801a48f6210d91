package subtitle

import (
	"fmt"
	"strings"
)

// Result carries both artifacts of one conversion. The transcript is always
// produced alongside the SRT document; callers needing only one still get
// both.
type Result struct {
	SRT        string
	Transcript string
}

// GenerateSRT renders caption blocks into a colorized SRT document and a
// plain transcript. Blocks with no lines and blocks matching the exclusion
// list are skipped entirely; the 1-based sequence counter only advances for
// emitted records.
func GenerateSRT(blocks []Block, exclusions Exclusions) Result {
	var (
		srt        strings.Builder
		transcript strings.Builder
		counter    int
	)
	for _, block := range blocks {
		if len(block.Lines) == 0 {
			continue
		}
		if exclusions.MatchBlock(block) {
			continue
		}
		styled, plain := renderLines(block.Lines)
		if styled == "" {
			continue
		}
		counter++
		fmt.Fprintf(&srt, "%d\n%s --> %s\n%s\n\n", counter, block.Begin, block.End, styled)
		transcript.WriteString(plain)
		transcript.WriteString("\n\n")
	}
	return Result{SRT: srt.String(), Transcript: transcript.String()}
}

func renderLines(lines []Line) (styled, plain string) {
	var styledBuilder, plainBuilder strings.Builder
	for _, line := range lines {
		if line.Color != "" {
			fmt.Fprintf(&styledBuilder, "<font color=%q>%s</font>", line.Color, line.Text)
		} else {
			styledBuilder.WriteString(line.Text)
		}
		plainBuilder.WriteString(line.Text)
	}
	return styledBuilder.String(), plainBuilder.String()
}
