package resolver

import (
	"context"
	"errors"
	"strings"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/astionic/astionic/internal/music/track"
)

var errNoAudioFormat = errors.New("no audio format available")

// kkdaiStrategy is the last fallback for direct links: an in-process
// extractor that presents yet another client identity than the yt-dlp
// strategies before it.
type kkdaiStrategy struct{}

func (s *kkdaiStrategy) Name() string { return "kkdai" }

func (s *kkdaiStrategy) Resolve(ctx context.Context, url string) (track.Track, error) {
	client := youtube.Client{}

	video, err := client.GetVideoContext(ctx, url)
	if err != nil {
		return track.Track{}, err
	}

	formats := video.Formats.WithAudioChannels().Type("audio")

	// Prefer Opus (itag 251), then any opus, then best available.
	var format *youtube.Format
	for i := range formats {
		if formats[i].ItagNo == 251 {
			format = &formats[i]
			break
		}
	}
	if format == nil {
		for i := range formats {
			if strings.Contains(formats[i].MimeType, "opus") {
				format = &formats[i]
				break
			}
		}
	}
	if format == nil && len(formats) > 0 {
		formats.Sort()
		format = &formats[0]
	}
	if format == nil {
		return track.Track{}, &ResolveError{Locator: url, Cause: errNoAudioFormat}
	}

	streamURL, err := client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return track.Track{}, err
	}

	thumbnail := ""
	if len(video.Thumbnails) > 0 {
		thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}

	return track.Track{
		Locator:   url,
		StreamURL: streamURL,
		Title:     video.Title,
		Artist:    video.Author,
		Thumbnail: thumbnail,
		Duration:  video.Duration,
	}, nil
}
