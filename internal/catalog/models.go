package catalog

// Episode is the finalized descriptor persisted for one archived broadcast.
// Note and Presenter are genuinely optional; nil means the page or subtitles
// did not carry them.
type Episode struct {
	Show      string
	DateTime  string
	Timestamp int64
	Topics    string
	Note      *string
	Presenter *string
	VideoName string
	ArticleID int64
	VideoID   string
	Checksum  string
}

// SubtitleBundle carries the three stored forms of one episode's subtitles.
type SubtitleBundle struct {
	Raw        string
	Transcript string
	SRT        string
}

// VideoRecord is the catalog view the integrity checker iterates.
type VideoRecord struct {
	ID       int64
	Name     string
	Checksum string
}
