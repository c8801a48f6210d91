package scrape_test

import (
	"fmt"
	"strings"
	"testing"

	"tsarchiver/internal/scrape"
)

func showPageHTML(title, firstTeaser, secondTeaser, formAttrs string) []byte {
	var teasers strings.Builder
	fmt.Fprintf(&teasers, `<p class="teasertext">%s</p>`, firstTeaser)
	if secondTeaser != "" {
		fmt.Fprintf(&teasers, `<p class="teasertext">%s</p>`, secondTeaser)
	}
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<div class="inhalt">
%s
<form %s method="post"></form>
</div>
</body>
</html>`, title, teasers.String(), formAttrs))
}

func TestParseShowPage(t *testing.T) {
	page, err := scrape.ParseShowPage(showPageHTML(
		"tagesschau 20:00 Uhr, 01.01.2024 20:00 Uhr - Das Erste",
		"Themen der Sendung: Neujahrsansprache, Hochwasserlage",
		"Hinweis: Diese Sendung wurde nachträglich bearbeitet",
		`data-config='{"mc":"/multimedia/video/video-12345"}' data-id='{"id":"video-12345"}'`,
	))
	if err != nil {
		t.Fatalf("ParseShowPage failed: %v", err)
	}
	if !strings.HasPrefix(page.Title, "tagesschau 20:00 Uhr") {
		t.Errorf("Title = %q", page.Title)
	}
	if page.Topics != "Neujahrsansprache, Hochwasserlage" {
		t.Errorf("Topics = %q", page.Topics)
	}
	if page.Note == nil || *page.Note != "Diese Sendung wurde nachträglich bearbeitet" {
		t.Errorf("Note = %v", page.Note)
	}
	if page.VideoID != "video-12345" {
		t.Errorf("VideoID = %q", page.VideoID)
	}
}

func TestParseShowPageNoNote(t *testing.T) {
	page, err := scrape.ParseShowPage(showPageHTML(
		"tagesthemen, 01.01.2024 22:15 Uhr",
		"Themen der Sendung: Lage im Ahrtal",
		"",
		`data-id='{"id":"video-99"}'`,
	))
	if err != nil {
		t.Fatalf("ParseShowPage failed: %v", err)
	}
	if page.Note != nil {
		t.Errorf("Note = %q, want nil", *page.Note)
	}
	if page.VideoID != "video-99" {
		t.Errorf("VideoID = %q", page.VideoID)
	}
}

func TestParseShowPageSecondTeaserWithoutHinweis(t *testing.T) {
	page, err := scrape.ParseShowPage(showPageHTML(
		"nachtmagazin, 02.01.2024 00:30 Uhr",
		"Themen der Sendung: Rückblick",
		"Weitere Informationen: anderswo",
		`data-id='{"id":"video-7"}'`,
	))
	if err != nil {
		t.Fatalf("ParseShowPage failed: %v", err)
	}
	if page.Note != nil {
		t.Errorf("Note = %q, want nil", *page.Note)
	}
}

func TestParseShowPageMissingMarkup(t *testing.T) {
	cases := []struct {
		name string
		html string
	}{
		{"no title", `<html><head></head><body><div class="inhalt"><p class="teasertext">Themen: a</p><form data-id='{"id":"v"}'></form></div></body></html>`},
		{"no content block", `<html><head><title>t</title></head><body></body></html>`},
		{"no teaser", `<html><head><title>t</title></head><body><div class="inhalt"><form data-id='{"id":"v"}'></form></div></body></html>`},
		{"no form", `<html><head><title>t</title></head><body><div class="inhalt"><p class="teasertext">Themen: a</p></div></body></html>`},
		{"form without id attr", `<html><head><title>t</title></head><body><div class="inhalt"><p class="teasertext">Themen: a</p><form method="post"></form></div></body></html>`},
		{"id value under non-id key", `<html><head><title>t</title></head><body><div class="inhalt"><p class="teasertext">Themen: a</p><form data-v='{"id":"v"}'></form></div></body></html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := scrape.ParseShowPage([]byte(tc.html)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseMediaJSON(t *testing.T) {
	data := []byte(`{
		"_mediaArray": [{
			"_mediaStreamArray": [
				{"_stream": "http://example.test/low.mp4"},
				{"_stream": "http://example.test/mid.mp4"},
				{"_stream": "http://example.test/hi.mp4"}
			]
		}],
		"_subtitleUrl": "/multimedia/ebu-tt-1234.xml"
	}`)
	media, err := scrape.ParseMediaJSON(data)
	if err != nil {
		t.Fatalf("ParseMediaJSON failed: %v", err)
	}
	if media.StreamURL != "http://example.test/hi.mp4" {
		t.Errorf("StreamURL = %q, want the last stream entry", media.StreamURL)
	}
	if media.SubtitleURL != "/multimedia/ebu-tt-1234.xml" {
		t.Errorf("SubtitleURL = %q", media.SubtitleURL)
	}
}

func TestParseMediaJSONNoSubtitles(t *testing.T) {
	media, err := scrape.ParseMediaJSON([]byte(`{"_mediaArray":[{"_mediaStreamArray":[{"_stream":"http://example.test/v.mp4"}]}]}`))
	if err != nil {
		t.Fatalf("ParseMediaJSON failed: %v", err)
	}
	if media.SubtitleURL != "" {
		t.Errorf("SubtitleURL = %q, want empty", media.SubtitleURL)
	}
}

func TestParseMediaJSONNoStreams(t *testing.T) {
	if _, err := scrape.ParseMediaJSON([]byte(`{"_mediaArray":[]}`)); err == nil {
		t.Error("empty media array should fail")
	}
	if _, err := scrape.ParseMediaJSON([]byte(`not json`)); err == nil {
		t.Error("malformed json should fail")
	}
}

func TestURLBuilders(t *testing.T) {
	base := "https://www.tagesschau.de"
	if got := scrape.ShowPageURL(base, "ts", 1234); got != "https://www.tagesschau.de/multimedia/sendung/ts-1234.html" {
		t.Errorf("ShowPageURL = %q", got)
	}
	if got := scrape.MediaJSONURL(base, "video-12345"); got != "https://www.tagesschau.de/multimedia/video/video-12345~mediajson.json" {
		t.Errorf("MediaJSONURL = %q", got)
	}
}
