package archive

import "tsarchiver/internal/config"

// Show describes one recurring broadcast the archiver tracks.
type Show struct {
	// Key is the catalog dimension name and filename prefix.
	Key string
	// PagePrefix is the URL path token of the show's article pages.
	PagePrefix string
	// NameTokens are tried in order against the page title to locate the
	// air-time substring. Longer variants come first so special editions
	// match before the plain name.
	NameTokens []string
	// TitleMarker, when set, must appear in the page title for the page to
	// count as this show at all. Only the main 20:00 broadcast uses it;
	// its article series also carries other editions of the day.
	TitleMarker string
	// Window bounds how many indices above the high-water mark are probed.
	Window int64
	// Album and DisplayTitle feed the metadata tagger.
	Album        string
	DisplayTitle string
}

// Shows returns the tracked broadcasts in scan order, with scan windows
// taken from configuration.
func Shows(cfg *config.Config) []Show {
	return []Show{
		{
			Key:          "ts20",
			PagePrefix:   "ts",
			NameTokens:   []string{"tagesschau"},
			TitleMarker:  "20:00",
			Window:       int64(cfg.Scan.WindowTagesschau),
			Album:        "tagesschau",
			DisplayTitle: "tagesschau 20:00 Uhr",
		},
		{
			Key:          "tt",
			PagePrefix:   "tt",
			NameTokens:   []string{"tagesthemen extra", "tagesthemen"},
			Window:       int64(cfg.Scan.WindowTagesthemen),
			Album:        "tagesthemen",
			DisplayTitle: "tagesthemen",
		},
		{
			Key:          "nm",
			PagePrefix:   "nm",
			NameTokens:   []string{"nachtmagazin"},
			Window:       int64(cfg.Scan.WindowNachtmagazin),
			Album:        "nachtmagazin",
			DisplayTitle: "nachtmagazin",
		},
	}
}
