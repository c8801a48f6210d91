package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ShowPage holds the fields extracted from one broadcast page.
type ShowPage struct {
	Title   string
	Topics  string
	Note    *string
	VideoID string
}

// ParseShowPage extracts episode fields from a broadcast page document.
// Missing required markup (title, content block, teaser, player form) fails
// the episode; the caller skips it and continues scanning.
func ParseShowPage(data []byte) (*ShowPage, error) {
	reader, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, fmt.Errorf("detect page charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	page := &ShowPage{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	if page.Title == "" {
		return nil, fmt.Errorf("page has no title")
	}

	content := doc.Find("body div.inhalt").First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("page has no content block")
	}

	teasers := content.Find("p.teasertext")
	if teasers.Length() == 0 {
		return nil, fmt.Errorf("page has no teaser text")
	}
	topics, err := textAfterColon(teasers.Eq(0).Text())
	if err != nil {
		return nil, fmt.Errorf("teaser topics: %w", err)
	}
	page.Topics = topics

	if teasers.Length() > 1 {
		second := teasers.Eq(1).Text()
		if strings.Contains(second, "Hinweis") {
			note, err := textAfterColon(second)
			if err == nil && note != "" {
				page.Note = &note
			}
		}
	}

	videoID, err := extractVideoID(content)
	if err != nil {
		return nil, err
	}
	page.VideoID = videoID

	return page, nil
}

func textAfterColon(text string) (string, error) {
	_, after, found := strings.Cut(text, ":")
	if !found {
		return "", fmt.Errorf("no colon in %q", strings.TrimSpace(text))
	}
	return strings.TrimSpace(after), nil
}

// extractVideoID pulls the video id out of the player form. The id sits in
// whichever form attribute has "id" in its name, shaped like `...:"<id>"}`.
func extractVideoID(content *goquery.Selection) (string, error) {
	form := content.Find("form").First()
	if form.Length() == 0 || len(form.Nodes) == 0 {
		return "", fmt.Errorf("page has no player form")
	}
	for _, attr := range form.Nodes[0].Attr {
		if !strings.Contains(attr.Key, "id") {
			continue
		}
		_, after, found := strings.Cut(attr.Val, ":")
		if !found {
			continue
		}
		value, _, found := strings.Cut(after, "}")
		if !found || len(value) < 2 {
			continue
		}
		// Strip the surrounding quotes.
		return value[1 : len(value)-1], nil
	}
	return "", fmt.Errorf("player form carries no video id")
}
