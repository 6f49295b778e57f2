// Package player holds the per-guild playback session: one state
// machine driving a queue, a voice connection and at most one active
// stream. All operations on a Player are serialized by its own mutex,
// so sessions for different guilds never contend with each other.
package player

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/music/queue"
	"github.com/astionic/astionic/internal/music/stream"
	"github.com/astionic/astionic/internal/music/track"
	"github.com/astionic/astionic/internal/music/transport"
)

var (
	// ErrNotConnected is returned by operations that need a live voice
	// connection when there is none.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrNothingPlaying is returned by pause/resume/skip when no track
	// is loaded.
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrInterjecting is returned when a playback operation cannot run
	// because an interjection currently owns the connection.
	ErrInterjecting = errors.New("announcement in progress")
)

// Opener turns a stream URL into the PCM stream fed to the transport.
// Tests substitute it to avoid spawning ffmpeg.
type Opener func(input string) (io.ReadCloser, error)

// Player is the playback session for a single guild.
type Player struct {
	mu      sync.Mutex
	guildID string

	connector transport.Connector
	open      Opener

	conn     transport.Conn
	queue    *queue.Queue
	current  *track.Track
	playback transport.Playback
	state    State

	// gen tags the active playback so completion events from a stream
	// that was already replaced are ignored.
	gen int

	interjection  *interjection
	pendingResume bool

	onTrackStart func(track.Track)

	log zerolog.Logger
}

// SetOnTrackStart installs a callback invoked (on its own goroutine)
// each time a new track begins playing. Replaces any previous callback.
func (p *Player) SetOnTrackStart(fn func(track.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTrackStart = fn
}

// New builds an idle session for guildID.
func New(guildID string, connector transport.Connector) *Player {
	return &Player{
		guildID:   guildID,
		connector: connector,
		open:      stream.Open,
		queue:     queue.New(),
		state:     StateIdle,
		log:       log.With().Str("guild", guildID).Logger(),
	}
}

// Join connects the session to channelID. Joining the channel the
// session is already in is a no-op; joining a different channel moves
// the session, dropping the active stream.
func (p *Player) Join(ctx context.Context, channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		if p.conn.ChannelID() == channelID {
			return nil
		}
		p.teardownPlaybackLocked()
		if p.interjection != nil {
			p.interjection.playback.Stop()
		}
		p.state = StateIdle
		p.pendingResume = false
		if err := p.conn.Disconnect(ctx); err != nil {
			p.log.Warn().Err(err).Msg("disconnect before channel move failed")
		}
		p.conn = nil
	}

	conn, err := p.connector.Connect(ctx, p.guildID, channelID)
	if err != nil {
		return err
	}
	p.conn = conn
	return nil
}

// Connected reports whether the session holds a voice connection.
func (p *Player) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// ChannelID returns the connected channel, or "" when disconnected.
func (p *Player) ChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return ""
	}
	return p.conn.ChannelID()
}

// Enqueue appends tracks to the queue. If nothing is playing the head
// of the queue starts immediately.
func (p *Player) Enqueue(tracks ...track.Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return ErrNotConnected
	}

	p.queue.Push(tracks...)
	if p.state == StateIdle && p.current == nil {
		p.startNextLocked()
	}
	return nil
}

// Pause suspends the current track, keeping its position. Pausing while
// ducked cancels the automatic resume after the interjection instead.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		p.playback.Pause()
		p.state = StatePaused
		return nil
	case StateDucked:
		p.pendingResume = false
		return nil
	case StatePaused:
		return nil
	default:
		return ErrNothingPlaying
	}
}

// Resume continues the current track from where Pause left it. Resuming
// while ducked re-arms the automatic resume after the interjection.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePaused:
		p.playback.Resume()
		p.state = StatePlaying
		return nil
	case StateDucked:
		p.pendingResume = true
		return nil
	case StatePlaying:
		return nil
	default:
		return ErrNothingPlaying
	}
}

// Skip drops the current track and starts the next queued one, or goes
// idle when the queue is empty.
func (p *Player) Skip() (track.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return track.Track{}, ErrNothingPlaying
	}
	if p.state == StateDucked {
		return track.Track{}, ErrInterjecting
	}

	skipped := *p.current
	p.teardownPlaybackLocked()
	p.startNextLocked()
	return skipped, nil
}

// Stop ends playback, clears the queue and leaves the voice channel.
func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.Clear()
	p.teardownPlaybackLocked()
	if p.interjection != nil {
		p.interjection.playback.Stop()
	}
	p.state = StateIdle
	p.pendingResume = false

	if p.conn == nil {
		return nil
	}
	err := p.conn.Disconnect(ctx)
	p.conn = nil
	return err
}

// Clear drops all pending tracks. The current track keeps playing.
func (p *Player) Clear() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.queue.Len()
	p.queue.Clear()
	return n
}

// Shuffle permutes the pending tracks.
func (p *Player) Shuffle() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.Shuffle()
	return p.queue.Len()
}

// Queue returns a copy of the pending tracks in play order.
func (p *Player) Queue() []track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.PeekAll()
}

// NowPlaying returns the current track and its position, with ok=false
// when nothing is loaded.
func (p *Player) NowPlaying() (t track.Track, position time.Duration, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return track.Track{}, 0, false
	}
	if p.playback != nil {
		position = p.playback.Position()
	}
	return *p.current, position, true
}

// State returns the session state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// startNextLocked dispatches the head of the queue, skipping entries
// that never resolved, until a stream starts or the queue runs out.
func (p *Player) startNextLocked() {
	for {
		next, ok := p.queue.PopNext()
		if !ok {
			p.current = nil
			p.state = StateIdle
			return
		}
		if !next.Playable() {
			p.log.Warn().Str("locator", next.Locator).Err(next.Err).Msg("skipping unplayable queue entry")
			continue
		}

		src, err := p.open(next.StreamURL)
		if err != nil {
			p.log.Error().Str("title", next.DisplayTitle()).Err(err).Msg("stream open failed, skipping")
			continue
		}

		pb, err := p.conn.Play(src)
		if err != nil {
			_ = src.Close()
			p.log.Error().Str("title", next.DisplayTitle()).Err(err).Msg("transport rejected stream, skipping")
			continue
		}

		p.current = &next
		p.playback = pb
		p.state = StatePlaying
		p.gen++

		p.log.Info().Str("title", next.DisplayTitle()).Msg("now playing")
		if p.onTrackStart != nil {
			go p.onTrackStart(next)
		}
		go p.watch(p.gen, pb)
		return
	}
}

// watch delivers the stream's single completion event back into the
// state machine.
func (p *Player) watch(gen int, pb transport.Playback) {
	err := <-pb.Done()
	p.onPlaybackDone(gen, err)
}

func (p *Player) onPlaybackDone(gen int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// A skip or stop already replaced this stream.
		return
	}
	if errors.Is(err, transport.ErrStopped) {
		// The initiator of the stop drives the next transition.
		return
	}
	if err != nil {
		p.log.Error().Err(err).Msg("playback failed")
	}

	p.current = nil
	p.playback = nil
	p.startNextLocked()
}

// teardownPlaybackLocked stops the active stream and bumps the
// generation so its completion event is discarded.
func (p *Player) teardownPlaybackLocked() {
	if p.playback != nil {
		p.playback.Stop()
		p.playback = nil
	}
	p.current = nil
	p.gen++
	if p.state != StateDucked {
		p.state = StateIdle
	}
}
