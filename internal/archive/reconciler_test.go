package archive_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"tsarchiver/internal/archive"
	"tsarchiver/internal/config"
	"tsarchiver/internal/logging"
	"tsarchiver/internal/media"
	"tsarchiver/internal/scrape"
	"tsarchiver/internal/subtitle"
	"tsarchiver/internal/testsupport"
)

type fakeResponse struct {
	body   []byte
	status int
}

// fakeFetcher serves canned responses by URL. Unknown URLs come back as 404,
// which mirrors how unpublished article indices behave.
type fakeFetcher struct {
	responses map[string]fakeResponse
	downloads map[string]string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string]fakeResponse),
		downloads: make(map[string]string),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, int, error) {
	response, ok := f.responses[url]
	if !ok {
		return nil, http.StatusNotFound, nil
	}
	return response.body, response.status, nil
}

func (f *fakeFetcher) Download(ctx context.Context, url, destPath string) error {
	content, ok := f.downloads[url]
	if !ok {
		return fmt.Errorf("download %s: unexpected status 404", url)
	}
	return os.WriteFile(destPath, []byte(content), 0o644)
}

func showPage(title, topics, videoID string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<div class="inhalt">
<p class="teasertext">Themen der Sendung: %s</p>
<form data-id='{"id":"%s"}' method="post"></form>
</div>
</body>
</html>`, title, topics, videoID))
}

func mediaJSON(streamURL, subtitleURL string) []byte {
	return []byte(fmt.Sprintf(
		`{"_mediaArray":[{"_mediaStreamArray":[{"_stream":"%s"}]}],"_subtitleUrl":"%s"}`,
		streamURL, subtitleURL,
	))
}

const subtitleDocument = `<?xml version="1.0" encoding="utf-8"?>
<tt:tt xmlns:tt="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling" xml:lang="de">
<tt:head><tt:styling><tt:style xml:id="s1" tts:color="#ffffff"/></tt:styling></tt:head>
<tt:body><tt:div>
<tt:p begin="00:00:01.000" end="00:00:03.000"><tt:span style="s1">Heute im Studio: Susanne Daubner</tt:span></tt:p>
</tt:div></tt:body></tt:tt>`

func newTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Scan.BaseURL = "https://example.test"
	cfg.Scan.WindowTagesschau = 6
	cfg.Scan.WindowTagesthemen = 4
	cfg.Scan.WindowNachtmagazin = 2
	return &cfg
}

func newTestEmbedder(t *testing.T) *media.Embedder {
	t.Helper()
	embedder := media.NewEmbedder(logging.NewNop())
	embedder.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name == "ffmpeg" {
			return os.WriteFile(args[len(args)-1], []byte("muxed"), 0o644)
		}
		return nil
	})
	return embedder
}

func TestReconcilerArchivesNewEpisode(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)
	ctx := context.Background()

	fetcher := newFakeFetcher()
	fetcher.responses["https://example.test/multimedia/sendung/ts-1002.html"] = fakeResponse{
		body:   showPage("tagesschau 01.01.2024 20:00 Uhr", "Neujahrsansprache, Hochwasserlage", "video-1002"),
		status: http.StatusOK,
	}
	fetcher.responses["https://example.test/multimedia/video/video-1002~mediajson.json"] = fakeResponse{
		body:   mediaJSON("https://example.test/video/1002.mp4", "/subs/1002.xml"),
		status: http.StatusOK,
	}
	fetcher.responses["https://example.test/subs/1002.xml"] = fakeResponse{
		body:   []byte(subtitleDocument),
		status: http.StatusOK,
	}
	fetcher.downloads["https://example.test/video/1002.mp4"] = "video bytes"

	reconciler := archive.New(archive.Params{
		Config:     cfg,
		Store:      store,
		Fetcher:    fetcher,
		Embedder:   newTestEmbedder(t),
		Starts:     archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Exclusions: subtitle.Exclusions{},
		Logger:     logging.NewNop(),
		Dir:        dir,
	})
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count, err := store.CountVideos(ctx)
	if err != nil || count != 1 {
		t.Fatalf("CountVideos = %d, %v", count, err)
	}

	mark, found, err := store.HighWaterMark(ctx, "ts20")
	if err != nil || !found || mark != 1002 {
		t.Fatalf("HighWaterMark = %d, found=%v, err=%v", mark, found, err)
	}

	records, err := store.ListVideos(ctx)
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if records[0].Name != "ts20_2024-01-01.mp4" {
		t.Errorf("video name = %q", records[0].Name)
	}
	if records[0].Checksum == "" {
		t.Error("checksum not recorded")
	}

	// The mux fake replaced the download, so the file on disk proves both
	// the download and the atomic rename ran.
	data, err := os.ReadFile(filepath.Join(dir, records[0].Name))
	if err != nil || string(data) != "muxed" {
		t.Errorf("archived file = %q, %v", data, err)
	}
}

func TestReconcilerIdempotentSecondRun(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)
	ctx := context.Background()

	fetcher := newFakeFetcher()
	fetcher.responses["https://example.test/multimedia/sendung/ts-1002.html"] = fakeResponse{
		body:   showPage("tagesschau 01.01.2024 20:00 Uhr", "Neujahrsansprache", "video-1002"),
		status: http.StatusOK,
	}
	fetcher.responses["https://example.test/multimedia/video/video-1002~mediajson.json"] = fakeResponse{
		body:   mediaJSON("https://example.test/video/1002.mp4", ""),
		status: http.StatusOK,
	}
	fetcher.downloads["https://example.test/video/1002.mp4"] = "video bytes"

	reconciler := archive.New(archive.Params{
		Config:   cfg,
		Store:    store,
		Fetcher:  fetcher,
		Embedder: newTestEmbedder(t),
		Starts:   archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Logger:   logging.NewNop(),
		Dir:      dir,
	})
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	count, err := store.CountVideos(ctx)
	if err != nil || count != 1 {
		t.Fatalf("CountVideos after second run = %d, %v", count, err)
	}
	mark, _, err := store.HighWaterMark(ctx, "ts20")
	if err != nil || mark != 1002 {
		t.Fatalf("mark after second run = %d, %v", mark, err)
	}
}

func TestReconcilerSkipsSiblingEdition(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)
	ctx := context.Background()

	// The 20:00 article series also carries midday editions; those pages
	// must be passed over without advancing anything.
	fetcher := newFakeFetcher()
	fetcher.responses["https://example.test/multimedia/sendung/ts-1002.html"] = fakeResponse{
		body:   showPage("tagesschau 01.01.2024 12:00 Uhr", "Mittagsausgabe", "video-1002"),
		status: http.StatusOK,
	}

	reconciler := archive.New(archive.Params{
		Config:   cfg,
		Store:    store,
		Fetcher:  fetcher,
		Embedder: newTestEmbedder(t),
		Starts:   archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Logger:   logging.NewNop(),
		Dir:      dir,
	})
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count, err := store.CountVideos(ctx)
	if err != nil || count != 0 {
		t.Fatalf("CountVideos = %d, %v", count, err)
	}
	if _, found, err := store.HighWaterMark(ctx, "ts20"); err != nil || found {
		t.Fatalf("mark should stay unset: found=%v err=%v", found, err)
	}
}

func TestReconcilerToleratesGapsAndBadPages(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)
	ctx := context.Background()

	fetcher := newFakeFetcher()
	// 1002 is a gap (404 by default), 1004 is unparseable, 1006 is valid;
	// the scan must reach and archive 1006 regardless.
	fetcher.responses["https://example.test/multimedia/sendung/ts-1004.html"] = fakeResponse{
		body:   []byte("<html><head></head><body>service unavailable</body></html>"),
		status: http.StatusOK,
	}
	fetcher.responses["https://example.test/multimedia/sendung/ts-1006.html"] = fakeResponse{
		body:   showPage("tagesschau 03.01.2024 20:00 Uhr", "Lage im Nahen Osten", "video-1006"),
		status: http.StatusOK,
	}
	fetcher.responses["https://example.test/multimedia/video/video-1006~mediajson.json"] = fakeResponse{
		body:   mediaJSON("https://example.test/video/1006.mp4", ""),
		status: http.StatusOK,
	}
	fetcher.downloads["https://example.test/video/1006.mp4"] = "video bytes"

	reconciler := archive.New(archive.Params{
		Config:   cfg,
		Store:    store,
		Fetcher:  fetcher,
		Embedder: newTestEmbedder(t),
		Starts:   archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Logger:   logging.NewNop(),
		Dir:      dir,
	})
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	mark, found, err := store.HighWaterMark(ctx, "ts20")
	if err != nil || !found || mark != 1006 {
		t.Fatalf("HighWaterMark = %d, found=%v, err=%v", mark, found, err)
	}
	records, err := store.ListVideos(ctx)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %+v, %v", records, err)
	}
	if records[0].Name != "ts20_2024-01-03.mp4" {
		t.Errorf("video name = %q", records[0].Name)
	}
}

func TestReconcilerDisambiguatesFilenames(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)
	ctx := context.Background()

	// Two episodes on the same calendar day, e.g. a tagesthemen extra.
	fetcher := newFakeFetcher()
	for _, page := range []struct {
		index   int64
		title   string
		videoID string
	}{
		{502, "tagesthemen 01.01.2024 22:15 Uhr", "video-502"},
		{504, "tagesthemen extra 01.01.2024 23:30 Uhr", "video-504"},
	} {
		fetcher.responses[fmt.Sprintf("https://example.test/multimedia/sendung/tt-%d.html", page.index)] = fakeResponse{
			body:   showPage(page.title, "Themen des Tages", page.videoID),
			status: http.StatusOK,
		}
		fetcher.responses[fmt.Sprintf("https://example.test/multimedia/video/%s~mediajson.json", page.videoID)] = fakeResponse{
			body:   mediaJSON(fmt.Sprintf("https://example.test/video/%s.mp4", page.videoID), ""),
			status: http.StatusOK,
		}
		fetcher.downloads[fmt.Sprintf("https://example.test/video/%s.mp4", page.videoID)] = "video bytes"
	}

	reconciler := archive.New(archive.Params{
		Config:   cfg,
		Store:    store,
		Fetcher:  fetcher,
		Embedder: newTestEmbedder(t),
		Starts:   archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Logger:   logging.NewNop(),
		Dir:      dir,
	})
	if err := reconciler.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	records, err := store.ListVideos(ctx)
	if err != nil || len(records) != 2 {
		t.Fatalf("records = %+v, %v", records, err)
	}
	if records[0].Name != "tt_2024-01-01.mp4" {
		t.Errorf("first name = %q", records[0].Name)
	}
	if records[1].Name != "tt_2024-01-01_2.mp4" {
		t.Errorf("second name = %q", records[1].Name)
	}
}

func TestReconcilerAbortsOnCancel(t *testing.T) {
	cfg := newTestConfig()
	dir := testsupport.NewArchiveDir(t)
	store := testsupport.MustCreateStore(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reconciler := archive.New(archive.Params{
		Config:   cfg,
		Store:    store,
		Fetcher:  newFakeFetcher(),
		Embedder: newTestEmbedder(t),
		Starts:   archive.FixedStart{"ts20": 1000, "tt": 500, "nm": 700},
		Logger:   logging.NewNop(),
		Dir:      dir,
	})
	if err := reconciler.Run(ctx); err == nil {
		t.Fatal("Run should stop on a canceled context")
	}
}

var _ scrape.Fetcher = (*fakeFetcher)(nil)
