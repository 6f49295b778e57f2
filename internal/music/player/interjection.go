package player

import (
	"errors"
	"io"
	"sync"

	"github.com/astionic/astionic/internal/music/transport"
)

// interjection is announcement audio playing over the session. The
// suspended track, if any, is resumed when it ends.
type interjection struct {
	playback transport.Playback
	once     sync.Once
	cleanup  func()
}

func (ij *interjection) runCleanup() {
	if ij.cleanup == nil {
		return
	}
	ij.once.Do(ij.cleanup)
}

// Interject plays src over the voice connection, ducking the current
// track. cleanup runs exactly once when the interjection ends, whatever
// ends it: natural completion, a session stop, or a transport failure.
// If a track was playing it resumes at its held position afterwards; a
// paused track stays paused.
func (p *Player) Interject(src io.ReadCloser, cleanup func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		_ = src.Close()
		return ErrNotConnected
	}
	if p.interjection != nil {
		_ = src.Close()
		return ErrInterjecting
	}

	p.pendingResume = p.state == StatePlaying
	if p.playback != nil {
		p.playback.Pause()
	}

	pb, err := p.conn.Play(src)
	if err != nil {
		_ = src.Close()
		if p.pendingResume {
			p.playback.Resume()
		}
		p.pendingResume = false
		return err
	}

	ij := &interjection{playback: pb, cleanup: cleanup}
	p.interjection = ij
	p.state = StateDucked

	go p.watchInterjection(ij)
	return nil
}

func (p *Player) watchInterjection(ij *interjection) {
	err := <-ij.playback.Done()
	ij.runCleanup()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interjection != ij {
		return
	}
	p.interjection = nil

	if err != nil && !errors.Is(err, transport.ErrStopped) {
		p.log.Error().Err(err).Msg("interjection playback failed")
	}

	switch {
	case p.conn == nil:
		p.state = StateIdle
	case p.current == nil || p.playback == nil:
		// Nothing to resume. Tracks enqueued while ducked wait in the
		// queue, so dispatch instead of parking the session idle.
		p.startNextLocked()
	case p.pendingResume:
		p.playback.Resume()
		p.state = StatePlaying
	default:
		p.state = StatePaused
	}
	p.pendingResume = false
}
