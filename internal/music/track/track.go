// Package track defines the track request model shared by the queue,
// the player and the resolver.
package track

import "time"

// FallbackThumbnail is shown when a source has no artwork.
const FallbackThumbnail = "https://images.unsplash.com/photo-1611162616475-46b635cb6868?ixlib=rb-4.0.3"

// Track is a single user-requested item. A Track is only admitted to a
// queue after resolution: either StreamURL is set, or Err records why
// resolution failed (playlist members are kept as placeholders so the
// user can see what was dropped).
type Track struct {
	Locator   string // original URL or search text as the user typed it
	StreamURL string // direct audio URL, set on successful resolution

	Title     string
	Artist    string
	Thumbnail string
	Duration  time.Duration // 0 when unknown (livestreams, some sources)
	IsLive    bool

	Err error // non-nil marks a failed playlist member placeholder
}

// Playable reports whether the track can be dispatched to the transport.
func (t *Track) Playable() bool {
	return t.Err == nil && t.StreamURL != ""
}

// DisplayTitle returns the title or a sensible default.
func (t *Track) DisplayTitle() string {
	if t.Title == "" {
		return "Unknown Title"
	}
	return t.Title
}

// DisplayArtist returns the artist or a sensible default.
func (t *Track) DisplayArtist() string {
	if t.Artist == "" {
		return "Unknown Artist"
	}
	return t.Artist
}

// DisplayThumbnail returns the artwork URL or the fallback image.
func (t *Track) DisplayThumbnail() string {
	if t.Thumbnail == "" {
		return FallbackThumbnail
	}
	return t.Thumbnail
}

// Placeholder builds the record kept for a playlist member that failed
// to resolve.
func Placeholder(locator string, err error) Track {
	return Track{
		Locator: locator,
		Title:   "<Unknown>",
		Err:     err,
	}
}
