package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"tsarchiver/internal/airtime"
	"tsarchiver/internal/catalog"
	"tsarchiver/internal/config"
	"tsarchiver/internal/logging"
	"tsarchiver/internal/media"
	"tsarchiver/internal/scrape"
	"tsarchiver/internal/subtitle"
)

// StartProvider supplies the starting page index for a show with no archived
// episodes yet. The CLI provides an interactive implementation; tests a
// fixed one. The reconciler itself never prompts.
type StartProvider interface {
	StartIndex(show Show) (int64, error)
}

// Params collects the collaborators of a Reconciler.
type Params struct {
	Config          *config.Config
	Store           *catalog.Store
	Fetcher         scrape.Fetcher
	Embedder        *media.Embedder
	Prober          *media.Prober
	Starts          StartProvider
	Exclusions      subtitle.Exclusions
	Logger          *slog.Logger
	Dir             string
	VerifyDownloads bool
}

// Reconciler scans for new episodes and archives them.
type Reconciler struct {
	cfg             *config.Config
	store           *catalog.Store
	fetcher         scrape.Fetcher
	embedder        *media.Embedder
	prober          *media.Prober
	starts          StartProvider
	exclusions      subtitle.Exclusions
	logger          *slog.Logger
	dir             string
	verifyDownloads bool
}

// New constructs a Reconciler.
func New(params Params) *Reconciler {
	return &Reconciler{
		cfg:             params.Config,
		store:           params.Store,
		fetcher:         params.Fetcher,
		embedder:        params.Embedder,
		prober:          params.Prober,
		starts:          params.Starts,
		exclusions:      params.Exclusions,
		logger:          logging.NewComponentLogger(params.Logger, "reconcile"),
		dir:             params.Dir,
		verifyDownloads: params.VerifyDownloads,
	}
}

// Run reconciles every show once, in order. Per-episode failures are logged
// and skipped; fetch transport failures and context cancellation abort the
// run.
func (r *Reconciler) Run(ctx context.Context) error {
	for _, show := range Shows(r.cfg) {
		mark, found, err := r.store.HighWaterMark(ctx, show.Key)
		if err != nil {
			return err
		}
		if !found {
			mark, err = r.starts.StartIndex(show)
			if err != nil {
				return fmt.Errorf("start index for %s: %w", show.Key, err)
			}
		}
		if err := r.runShow(ctx, show, mark); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) runShow(ctx context.Context, show Show, last int64) error {
	logger := r.logger.With(logging.String(logging.FieldShow, show.Key))
	logger.Debug("scanning window",
		logging.Int64("from", last+2),
		logging.Int64("to", last+show.Window),
	)

	// Only even indices are ever valid page ids.
	for index := last + 2; index <= last+show.Window; index += 2 {
		if err := ctx.Err(); err != nil {
			return err
		}
		pageURL := scrape.ShowPageURL(r.cfg.Scan.BaseURL, show.PagePrefix, index)
		body, status, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return err
		}
		// Not yet published, or a gap from a skipped special edition.
		if status != http.StatusOK {
			continue
		}

		processed, err := r.processEpisode(ctx, show, index, body)
		if err != nil {
			logger.Warn("episode skipped",
				logging.Int64(logging.FieldArticleID, index),
				logging.Error(err),
			)
			continue
		}
		if !processed {
			logger.Debug("page is not this show",
				logging.Int64(logging.FieldArticleID, index),
			)
		}
	}
	return nil
}

// processEpisode archives one candidate page. The bool reports whether the
// page actually was an episode of this show; pages of sibling editions are
// passed over silently and never advance the high-water mark.
func (r *Reconciler) processEpisode(ctx context.Context, show Show, index int64, body []byte) (bool, error) {
	page, err := scrape.ParseShowPage(body)
	if err != nil {
		return true, err
	}
	if show.TitleMarker != "" && !strings.Contains(page.Title, show.TitleMarker) {
		return false, nil
	}

	dateString, ok := airTimeFromTitle(page.Title, show.NameTokens)
	if !ok {
		return false, nil
	}
	air, err := airtime.Normalize(dateString)
	if err != nil {
		return true, err
	}

	r.logger.Info("archiving episode",
		logging.String(logging.FieldShow, show.Key),
		logging.String("air_time", air.Display),
		logging.Int64(logging.FieldArticleID, index),
	)

	mediaBody, status, err := r.fetcher.Fetch(ctx, scrape.MediaJSONURL(r.cfg.Scan.BaseURL, page.VideoID))
	if err != nil {
		return true, err
	}
	if status != http.StatusOK {
		return true, fmt.Errorf("media json: unexpected status %d", status)
	}
	assets, err := scrape.ParseMediaJSON(mediaBody)
	if err != nil {
		return true, err
	}

	bundle, presenter, err := r.fetchSubtitles(ctx, assets.SubtitleURL)
	if err != nil {
		return true, err
	}

	name, err := r.store.UniqueVideoName(ctx, fmt.Sprintf("%s_%s.mp4", show.Key, air.Date))
	if err != nil {
		return true, err
	}
	videoPath := filepath.Join(r.dir, name)

	if err := r.fetcher.Download(ctx, assets.StreamURL, videoPath); err != nil {
		return true, err
	}

	srt := ""
	if bundle != nil {
		srt = bundle.SRT
	}
	tags := media.Tags{
		Album:             show.Album,
		Title:             show.DisplayTitle,
		ContentCreateDate: air.Meta,
		LongDescription:   page.Topics,
		Comment:           page.Note,
	}
	if err := r.embedder.Embed(ctx, videoPath, srt, tags); err != nil {
		return true, err
	}

	if r.verifyDownloads && r.prober != nil {
		if err := r.prober.DeepCheck(ctx, videoPath); err != nil {
			return true, err
		}
	}

	checksum, err := media.Checksum(videoPath)
	if err != nil {
		return true, err
	}

	episode := catalog.Episode{
		Show:      show.Key,
		DateTime:  air.Display,
		Timestamp: air.Unix,
		Topics:    page.Topics,
		Note:      page.Note,
		Presenter: presenter,
		VideoName: name,
		ArticleID: index,
		VideoID:   page.VideoID,
		Checksum:  checksum,
	}
	if err := r.store.InsertEpisode(ctx, episode, bundle); err != nil {
		return true, err
	}
	return true, nil
}

// fetchSubtitles retrieves and converts an episode's subtitles. An empty
// subtitle URL is a normal outcome and yields a nil bundle.
func (r *Reconciler) fetchSubtitles(ctx context.Context, subtitleURL string) (*catalog.SubtitleBundle, *string, error) {
	if subtitleURL == "" {
		return nil, nil, nil
	}
	raw, status, err := r.fetcher.Fetch(ctx, r.cfg.Scan.BaseURL+subtitleURL)
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK {
		return nil, nil, fmt.Errorf("subtitles: unexpected status %d", status)
	}

	format := subtitle.FormatEBUTTD
	if strings.HasSuffix(strings.ToLower(subtitleURL), ".vtt") {
		format = subtitle.FormatWebVTT
	}
	blocks, err := subtitle.Parse(format, raw)
	if err != nil {
		return nil, nil, err
	}
	result := subtitle.GenerateSRT(blocks, r.exclusions)

	bundle := &catalog.SubtitleBundle{
		Raw:        string(raw),
		Transcript: result.Transcript,
		SRT:        result.SRT,
	}
	return bundle, presenterFromSRT(result.SRT), nil
}

// presenterFromSRT pulls the presenter name from the start of the SRT text,
// where the studio credit is announced.
func presenterFromSRT(srt string) *string {
	head := srt
	if len(head) > 3000 {
		head = head[:3000]
	}
	_, after, found := strings.Cut(head, "Studio:")
	if !found {
		return nil
	}
	name, _, found := strings.Cut(after, "<")
	if !found {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}

// airTimeFromTitle extracts the air-time substring between the show's name
// token and the hour marker.
func airTimeFromTitle(title string, nameTokens []string) (string, bool) {
	for _, token := range nameTokens {
		_, after, found := strings.Cut(title, token)
		if !found {
			continue
		}
		value, _, found := strings.Cut(after, "Uhr")
		if !found {
			continue
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}

// FixedStart is a StartProvider returning preset indices, used when indices
// are supplied up front rather than interactively.
type FixedStart map[string]int64

// StartIndex returns the preset index for a show.
func (f FixedStart) StartIndex(show Show) (int64, error) {
	index, ok := f[show.Key]
	if !ok {
		return 0, errors.New("no start index for show " + show.Key)
	}
	return index, nil
}
