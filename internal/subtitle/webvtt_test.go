package subtitle_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tsarchiver/internal/subtitle"
)

func TestParseWebVTTMultiLineCue(t *testing.T) {
	doc := []byte("WEBVTT\n\nc1\n00:00:01.000 --> 00:00:03.000\nFirst line\nSecond line\n")
	blocks, err := subtitle.ParseWebVTT(doc)
	if err != nil {
		t.Fatalf("ParseWebVTT failed: %v", err)
	}
	want := []subtitle.Block{{
		Begin: "00:00:01,000",
		End:   "00:00:03,000",
		Lines: []subtitle.Line{
			{Text: "First line"},
			{Text: "\n"},
			{Text: "Second line"},
		},
	}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWebVTTMultipleCues(t *testing.T) {
	doc := []byte("WEBVTT\n\nc1\n00:00:01.000 --> 00:00:03.000\nHello\n\nc2\n00:00:04.000 --> 00:00:06.000 align:center\nWorld\n")
	blocks, err := subtitle.ParseWebVTT(doc)
	if err != nil {
		t.Fatalf("ParseWebVTT failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[1].End != "00:00:06,000" {
		t.Errorf("cue settings not stripped: End = %q", blocks[1].End)
	}
}

func TestParseWebVTTIdentifierClosesIncompleteCue(t *testing.T) {
	// First cue has times but no text; it must not be committed.
	doc := []byte("WEBVTT\n\nc1\n00:00:01.000 --> 00:00:03.000\n\nc2\n00:00:04.000 --> 00:00:06.000\nKept\n")
	blocks, err := subtitle.ParseWebVTT(doc)
	if err != nil {
		t.Fatalf("ParseWebVTT failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Lines[0].Text != "Kept" {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
}

func TestParseWebVTTTimeQuirk(t *testing.T) {
	doc := []byte("WEBVTT\n\nc1\n1:00:01.500 --> 2:00:03.000\nText\n")
	blocks, err := subtitle.ParseWebVTT(doc)
	if err != nil {
		t.Fatalf("ParseWebVTT failed: %v", err)
	}
	if blocks[0].Begin != "0:00:01,500" {
		t.Errorf("Begin = %q, want %q", blocks[0].Begin, "0:00:01,500")
	}
	if blocks[0].End != "0:00:01,500" {
		t.Errorf("End = %q, want begin-derived %q", blocks[0].End, "0:00:01,500")
	}
}

func TestParseWebVTTNoCueContent(t *testing.T) {
	_, err := subtitle.ParseWebVTT([]byte("WEBVTT\n\n"))
	if !errors.Is(err, subtitle.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}
