package scrape

import (
	"encoding/json"
	"fmt"
)

// Media describes the resolved assets of one episode. SubtitleURL is empty
// when the broadcast has no subtitles; that is a normal outcome, not a
// fault.
type Media struct {
	StreamURL   string
	SubtitleURL string
}

type mediaDocument struct {
	MediaArray []struct {
		MediaStreamArray []struct {
			Stream string `json:"_stream"`
		} `json:"_mediaStreamArray"`
	} `json:"_mediaArray"`
	SubtitleURL string `json:"_subtitleUrl"`
}

// ParseMediaJSON resolves the media document into asset URLs. The highest
// quality stream is the last entry of the first media array element.
func ParseMediaJSON(data []byte) (Media, error) {
	var doc mediaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Media{}, fmt.Errorf("parse media json: %w", err)
	}
	if len(doc.MediaArray) == 0 || len(doc.MediaArray[0].MediaStreamArray) == 0 {
		return Media{}, fmt.Errorf("media json carries no streams")
	}
	streams := doc.MediaArray[0].MediaStreamArray
	return Media{
		StreamURL:   streams[len(streams)-1].Stream,
		SubtitleURL: doc.SubtitleURL,
	}, nil
}

// ShowPageURL builds the page URL for one candidate article index.
func ShowPageURL(baseURL, pagePrefix string, index int64) string {
	return fmt.Sprintf("%s/multimedia/sendung/%s-%d.html", baseURL, pagePrefix, index)
}

// MediaJSONURL builds the media document URL for a video id.
func MediaJSONURL(baseURL, videoID string) string {
	return fmt.Sprintf("%s/multimedia/video/%s~mediajson.json", baseURL, videoID)
}
