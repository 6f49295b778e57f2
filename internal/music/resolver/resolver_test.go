package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astionic/astionic/internal/music/track"
)

type stubStrategy struct {
	name  string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Resolve(_ context.Context, url string) (track.Track, error) {
	s.calls++
	if s.err != nil {
		return track.Track{}, s.err
	}
	return track.Track{Locator: url, StreamURL: "https://cdn.example/" + s.name, Title: "via " + s.name}, nil
}

type stubLister struct {
	members []string
	err     error
}

func (l *stubLister) List(context.Context, string) ([]string, error) {
	return l.members, l.err
}

type stubSearcher struct {
	url string
	err error
}

func (s *stubSearcher) FirstVideoURL(context.Context, string) (string, error) {
	return s.url, s.err
}

func TestClassify(t *testing.T) {
	r := New(Options{})

	assert.Equal(t, KindSearch, r.Classify("rick astley never gonna give you up"))
	assert.Equal(t, KindPlaylist, r.Classify("https://www.youtube.com/playlist?list=PL123"))
	assert.Equal(t, KindLivestream, r.Classify("https://www.youtube.com/live/abcdef"))
	assert.Equal(t, KindDirect, r.Classify("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
}

func TestNormalizeRewritesMusicSubdomain(t *testing.T) {
	assert.Equal(t,
		"https://youtube.com/watch?v=abc",
		Normalize("https://music.youtube.com/watch?v=abc"))
	// Search text is left alone even if it mentions music.
	assert.Equal(t, "relaxing music. for work", Normalize("relaxing music. for work"))
}

func TestResolveFallbackChain(t *testing.T) {
	first := &stubStrategy{name: "web", err: errors.New("HTTP Error 403: Forbidden")}
	second := &stubStrategy{name: "ios", err: errors.New("403 Forbidden")}
	third := &stubStrategy{name: "web-nocookies"}

	r := &Resolver{strategies: []Strategy{first, second, third}}

	got, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "via web-nocookies", got.Title)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 1, third.calls)
}

func TestResolveNonDenialFailsFast(t *testing.T) {
	first := &stubStrategy{name: "web", err: errors.New("video is private")}
	second := &stubStrategy{name: "ios"}

	r := &Resolver{strategies: []Strategy{first, second}}

	_, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", resolveErr.Locator)
	assert.Equal(t, 0, second.calls, "only access denials move to the next strategy")
}

func TestResolveAllStrategiesExhausted(t *testing.T) {
	first := &stubStrategy{name: "web", err: errors.New("403")}
	second := &stubStrategy{name: "ios", err: errors.New("403")}

	r := &Resolver{strategies: []Strategy{first, second}}

	_, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Contains(t, resolveErr.Error(), "403")
}

func TestResolveSearch(t *testing.T) {
	direct := &stubStrategy{name: "web"}
	r := &Resolver{
		strategies: []Strategy{direct},
		search:     &stubSearcher{url: "https://www.youtube.com/watch?v=found"},
	}

	got, err := r.Resolve(context.Background(), "some song title")
	require.NoError(t, err)
	assert.Equal(t, "some song title", got.Locator)
	assert.NotEmpty(t, got.StreamURL)
}

func TestResolveLivestreamHasUnknownDuration(t *testing.T) {
	direct := &stubStrategy{name: "web"}
	r := &Resolver{strategies: []Strategy{direct}}

	got, err := r.Resolve(context.Background(), "https://www.youtube.com/live/stream123")
	require.NoError(t, err)
	assert.True(t, got.IsLive)
	assert.Zero(t, got.Duration)
}

func TestResolvePlaylistBestEffort(t *testing.T) {
	members := []string{
		"https://www.youtube.com/watch?v=m1",
		"https://www.youtube.com/watch?v=m2",
		"https://www.youtube.com/watch?v=m3",
		"https://www.youtube.com/watch?v=m4",
		"https://www.youtube.com/watch?v=m5",
	}

	failing := map[string]bool{"https://www.youtube.com/watch?v=m3": true}
	strat := &selectiveStrategy{failing: failing}

	r := &Resolver{
		strategies: []Strategy{strat},
		lister:     &stubLister{members: members},
	}

	var admitted []track.Track
	resolved, failed, err := r.ResolvePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", func(t track.Track) bool {
		admitted = append(admitted, t)
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resolved)
	assert.Equal(t, 1, failed)
	require.Len(t, admitted, 5)

	assert.Equal(t, "<Unknown>", admitted[2].Title)
	assert.False(t, admitted[2].Playable())
	assert.Error(t, admitted[2].Err)

	for i, tr := range admitted {
		if i == 2 {
			continue
		}
		assert.True(t, tr.Playable())
	}
}

func TestResolvePlaylistStopsOnCancel(t *testing.T) {
	members := []string{"https://a/watch?v=1", "https://a/watch?v=2", "https://a/watch?v=3"}
	strat := &selectiveStrategy{}

	r := &Resolver{
		strategies: []Strategy{strat},
		lister:     &stubLister{members: members},
	}

	ctx, cancel := context.WithCancel(context.Background())
	var admitted int
	_, _, err := r.ResolvePlaylist(ctx, "https://a/playlist?list=x", func(track.Track) bool {
		admitted++
		cancel()
		return true
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, admitted)
}

func TestResolvePlaylistListingFailure(t *testing.T) {
	r := &Resolver{lister: &stubLister{err: errors.New("network down")}}

	_, _, err := r.ResolvePlaylist(context.Background(), "https://a/playlist?list=x", func(track.Track) bool { return true })
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
}

// selectiveStrategy fails only for the URLs in failing.
type selectiveStrategy struct {
	failing map[string]bool
}

func (s *selectiveStrategy) Name() string { return "selective" }

func (s *selectiveStrategy) Resolve(_ context.Context, url string) (track.Track, error) {
	if s.failing[url] {
		return track.Track{}, errors.New("extraction failed")
	}
	return track.Track{Locator: url, StreamURL: url + "/audio", Title: url}, nil
}

func TestParseInfo(t *testing.T) {
	out := []byte(`{
		"title": "Test Song",
		"uploader": "Test Channel",
		"thumbnail": "https://i.ytimg.com/vi/abc/hq720.jpg",
		"duration": 213.5,
		"url": "https://cdn.example/audio.m4a"
	}`)

	got, err := parseInfo("https://www.youtube.com/watch?v=abc", out)
	require.NoError(t, err)
	assert.Equal(t, "Test Song", got.Title)
	assert.Equal(t, "Test Channel", got.Artist)
	assert.Equal(t, "https://cdn.example/audio.m4a", got.StreamURL)
	assert.Equal(t, 213500*time.Millisecond, got.Duration)
}

func TestParseInfoFallsBackToFormatURL(t *testing.T) {
	out := []byte(`{
		"title": "Fragmented",
		"formats": [{"url": "https://cdn.example/frag.m3u8", "fragments": [{"duration": 4.2}]}]
	}`)

	got, err := parseInfo("u", out)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/frag.m3u8", got.StreamURL)
	assert.Equal(t, 4200*time.Millisecond, got.Duration)
}

func TestParseInfoEmptyURL(t *testing.T) {
	_, err := parseInfo("u", []byte(`{"title": "no stream"}`))
	assert.Error(t, err)
}
