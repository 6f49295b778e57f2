package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/astionic/astionic/internal/music/track"
	"github.com/astionic/astionic/pkg/retrylimit"
)

// CommandRunner invokes the external yt-dlp binary. A stub replaces it
// in tests.
type CommandRunner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ytdlpRunner shells out to yt-dlp, paced by an adaptive limiter so
// fallback chains do not hammer an upstream that is already blocking.
type ytdlpRunner struct {
	limiter *retrylimit.AdaptiveLimiter
}

func (r *ytdlpRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := exec.CommandContext(ctx, "yt-dlp", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			err = fmt.Errorf("yt-dlp: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		if isAccessDenied(err) {
			r.limiter.Blocked()
		}
		return nil, err
	}

	r.limiter.Success()
	return out, nil
}

// primaryArgs is the standard web-client identity. Aggressive mode adds
// extra headers and the android player client.
func primaryArgs(aggressive bool) []string {
	args := []string{
		"--user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"--add-header", "Referer:https://www.youtube.com/",
		"--retries", "3",
		"--sleep-interval", "1",
		"--format", "bestaudio/best",
		"--ignore-errors",
		"--force-ipv4",
		"--socket-timeout", "30",
	}
	if aggressive {
		args = append(args,
			"--add-header", "Origin:https://www.youtube.com",
			"--add-header", "Accept-Language:en-US,en;q=0.9",
			"--extractor-args", "youtube:player_client=android",
			"--retries", "5",
			"--sleep-interval", "2",
			"--retry-sleep", "linear=1:5:10",
			"--format", "bestaudio[ext=m4a]/bestaudio/best",
			"--no-check-certificates",
			"--socket-timeout", "60",
		)
	}
	return args
}

func iosClientArgs() []string {
	return []string{
		"--extractor-args", "youtube:player_client=ios",
		"--user-agent", "com.google.ios.youtube/19.09.3 (iPhone14,3; U; CPU iOS 15_6 like Mac OS X)",
		"--retries", "3",
		"--sleep-interval", "3",
	}
}

func cookielessArgs() []string {
	return []string{
		"--extractor-args", "youtube:player_client=web",
		"--no-cookies",
		"--retries", "2",
		"--sleep-interval", "5",
	}
}

// ytdlpStrategy resolves one URL with a fixed client identity. Each
// attempt is a fresh yt-dlp invocation with no state carried over.
type ytdlpStrategy struct {
	name   string
	args   []string
	runner CommandRunner
}

func (s *ytdlpStrategy) Name() string { return "ytdlp-" + s.name }

func (s *ytdlpStrategy) Resolve(ctx context.Context, url string) (track.Track, error) {
	args := append(append([]string{}, s.args...), "-j", url)
	out, err := s.runner.Run(ctx, args...)
	if err != nil {
		return track.Track{}, err
	}
	return parseInfo(url, out)
}

type ytdlpInfo struct {
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Uploader  string  `json:"uploader"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
	IsLive    bool    `json:"is_live"`
	URL       string  `json:"url"`
	Formats   []struct {
		URL       string `json:"url"`
		Fragments []struct {
			Duration float64 `json:"duration"`
		} `json:"fragments,omitempty"`
	} `json:"formats"`
}

func parseInfo(url string, out []byte) (track.Track, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return track.Track{}, fmt.Errorf("json unmarshal error: %w", err)
	}

	// Some extractors report duration only on the first fragment.
	if info.Duration == 0 && len(info.Formats) > 0 && len(info.Formats[0].Fragments) > 0 {
		info.Duration = info.Formats[0].Fragments[0].Duration
	}

	streamURL := strings.TrimSpace(info.URL)
	if streamURL == "" && len(info.Formats) > 0 {
		streamURL = strings.TrimSpace(info.Formats[0].URL)
	}
	if streamURL == "" {
		return track.Track{}, errors.New("empty URL returned from yt-dlp")
	}

	artist := info.Artist
	if artist == "" {
		artist = info.Uploader
	}

	return track.Track{
		Locator:   url,
		StreamURL: streamURL,
		Title:     info.Title,
		Artist:    artist,
		Thumbnail: info.Thumbnail,
		Duration:  time.Duration(info.Duration * float64(time.Second)),
		IsLive:    info.IsLive,
	}, nil
}

// ytdlpLister enumerates playlist members without resolving them.
type ytdlpLister struct {
	runner CommandRunner
}

func (l *ytdlpLister) List(ctx context.Context, url string) ([]string, error) {
	out, err := l.runner.Run(ctx,
		"--flat-playlist",
		"--print", "url",
		"--no-warnings",
		"--ignore-config",
		url,
	)
	if err != nil {
		return nil, fmt.Errorf("playlist listing failed: %w", err)
	}

	var members []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			members = append(members, line)
		}
	}
	if len(members) == 0 {
		return nil, errors.New("playlist has no resolvable members")
	}
	return members, nil
}
