// Package scrape fetches broadcaster pages and extracts the episode fields
// the reconciler needs: page title, teaser topics, the optional "Hinweis"
// note, and the video id hidden in the player form markup. It also resolves
// the media JSON document into a stream URL and an optional subtitle URL.
package scrape
