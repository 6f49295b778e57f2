// Package resolver turns a user-supplied locator (URL, playlist URL or
// free-text search) into playable tracks with metadata. Direct links go
// through a chain of client-identity strategies so an upstream 403 on
// one client does not sink the request.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/astionic/astionic/internal/music/track"
	"github.com/astionic/astionic/pkg/retrylimit"
)

// Kind classifies a locator.
type Kind int

const (
	KindSearch Kind = iota
	KindPlaylist
	KindLivestream
	KindDirect
)

// ResolveError reports that a locator could not be turned into a stream
// after all strategies were exhausted.
type ResolveError struct {
	Locator string
	Cause   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %v", e.Locator, e.Cause)
}

func (e *ResolveError) Unwrap() error { return e.Cause }

// Strategy is one way of resolving a direct link. Strategies differ in
// the client identity they present upstream.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, url string) (track.Track, error)
}

// PlaylistLister enumerates the member URLs of a playlist.
type PlaylistLister interface {
	List(ctx context.Context, url string) ([]string, error)
}

// Searcher finds the best video URL for a free-text query.
type Searcher interface {
	FirstVideoURL(ctx context.Context, query string) (string, error)
}

// Options configures a Resolver.
type Options struct {
	// AggressiveMode adds extended headers and extractor arguments to
	// the primary yt-dlp strategy.
	AggressiveMode bool
}

// Resolver implements the locator classification policy and the
// per-strategy fallback chain.
type Resolver struct {
	strategies []Strategy
	lister     PlaylistLister
	search     Searcher
}

// New builds a Resolver with the default strategy chain: yt-dlp with
// the standard web client, then the iOS client, then a cookieless web
// client, and finally the in-process youtube library.
func New(opts Options) *Resolver {
	limiter := retrylimit.NewAdaptiveLimiter(2, rate.Limit(0.2), 4, 1, 0.5)
	runner := &ytdlpRunner{limiter: limiter}

	return &Resolver{
		strategies: []Strategy{
			&ytdlpStrategy{name: "web", args: primaryArgs(opts.AggressiveMode), runner: runner},
			&ytdlpStrategy{name: "ios", args: iosClientArgs(), runner: runner},
			&ytdlpStrategy{name: "web-nocookies", args: cookielessArgs(), runner: runner},
			&kkdaiStrategy{},
		},
		lister: &ytdlpLister{runner: runner},
		search: &ytSearcher{},
	}
}

// Classify decides how a locator is handled, in spec order: anything
// that is not a URL is a search; then playlists; then livestreams; the
// rest are direct links.
func (r *Resolver) Classify(locator string) Kind {
	if !isURL(locator) {
		return KindSearch
	}
	if strings.Contains(locator, "playlist") {
		return KindPlaylist
	}
	if strings.Contains(locator, "live") {
		return KindLivestream
	}
	return KindDirect
}

// Resolve handles search, livestream and direct locators. Playlists go
// through ResolvePlaylist.
func (r *Resolver) Resolve(ctx context.Context, locator string) (track.Track, error) {
	locator = Normalize(locator)

	switch r.Classify(locator) {
	case KindSearch:
		url, err := r.search.FirstVideoURL(ctx, locator)
		if err != nil {
			return track.Track{}, &ResolveError{Locator: locator, Cause: err}
		}
		t, err := r.resolveDirect(ctx, url, false)
		if err != nil {
			return track.Track{}, err
		}
		t.Locator = locator
		return t, nil
	case KindLivestream:
		return r.resolveDirect(ctx, locator, true)
	case KindPlaylist:
		return track.Track{}, &ResolveError{Locator: locator, Cause: errors.New("playlist locator passed to single-track resolve")}
	default:
		return r.resolveDirect(ctx, locator, false)
	}
}

// ResolvePlaylist enumerates the playlist and resolves members one at a
// time, calling admit after each. A member that fails resolution is
// admitted as a placeholder record rather than aborting the rest.
// admit returning false, or context cancellation, ends the loop early.
// Returns the number of resolved and failed members.
func (r *Resolver) ResolvePlaylist(ctx context.Context, url string, admit func(track.Track) bool) (resolved, failed int, err error) {
	url = Normalize(url)

	members, err := r.lister.List(ctx, url)
	if err != nil {
		return 0, 0, &ResolveError{Locator: url, Cause: err}
	}

	for _, member := range members {
		if ctx.Err() != nil {
			return resolved, failed, ctx.Err()
		}

		t, rerr := r.resolveDirect(ctx, member, false)
		if rerr != nil {
			log.Warn().Str("member", member).Err(rerr).Msg("playlist member failed to resolve, continuing")
			t = track.Placeholder(member, rerr)
			failed++
		} else {
			resolved++
		}

		if !admit(t) {
			break
		}
	}
	return resolved, failed, nil
}

// resolveDirect walks the strategy chain. Only failures that look like
// an upstream access denial move on to the next strategy; anything else
// is surfaced immediately.
func (r *Resolver) resolveDirect(ctx context.Context, url string, live bool) (track.Track, error) {
	var lastErr error
	for i, s := range r.strategies {
		t, err := s.Resolve(ctx, url)
		if err == nil {
			if i > 0 {
				log.Info().Str("url", url).Str("strategy", s.Name()).Msg("fallback strategy succeeded")
			}
			t.Locator = url
			if live {
				t.IsLive = true
				t.Duration = 0
			}
			return t, nil
		}

		lastErr = err
		if !isAccessDenied(err) {
			break
		}
		log.Warn().Str("url", url).Str("strategy", s.Name()).Err(err).Msg("strategy blocked, trying next")
	}
	return track.Track{}, &ResolveError{Locator: url, Cause: lastErr}
}

// Normalize rewrites links on the music subdomain of a video host to
// the canonical host before resolution.
func Normalize(locator string) string {
	if isURL(locator) && strings.Contains(locator, "music.") {
		return strings.Replace(locator, "music.", "", 1)
	}
	return locator
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "403") || strings.Contains(msg, "Forbidden")
}
