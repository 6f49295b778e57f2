package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"layeh.com/gopus"
)

// DiscordConnector joins voice channels over an open gateway session.
type DiscordConnector struct {
	dg *discordgo.Session
}

func NewDiscordConnector(dg *discordgo.Session) *DiscordConnector {
	return &DiscordConnector{dg: dg}
}

// Connect joins the given voice channel, self-deafened. The join is
// bounded by AcquireTimeout; a connection that completes after the
// deadline is torn down again.
func (c *DiscordConnector) Connect(ctx context.Context, guildID, channelID string) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	ch := make(chan result, 1)
	go func() {
		vc, err := c.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		ch <- result{vc: vc, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("failed to join voice channel: %w", r.err)
		}
		log.Info().Str("guild_id", guildID).Str("channel_id", channelID).Msg("joined voice channel")
		return &discordConn{vc: r.vc}, nil
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.err == nil {
				_ = r.vc.Disconnect()
			}
		}()
		return nil, ErrTimeout
	}
}

type discordConn struct {
	vc *discordgo.VoiceConnection
}

func (c *discordConn) ChannelID() string {
	return c.vc.ChannelID
}

// Play starts sending the PCM stream to the channel and returns its
// playback handle. src must deliver 48kHz stereo s16le.
func (c *discordConn) Play(src io.ReadCloser) (Playback, error) {
	p := &playback{
		done:   make(chan error, 1),
		stopCh: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run(c.vc, src)
	return p, nil
}

// Disconnect leaves the voice channel, bounded by AcquireTimeout.
func (c *discordConn) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	ch := make(chan error, 1)
	go func() {
		ch <- c.vc.Disconnect()
	}()

	select {
	case err := <-ch:
		if err != nil {
			return fmt.Errorf("failed to leave voice channel: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ErrTimeout
	}
}

// playback encodes PCM frames to Opus and feeds the voice connection.
type playback struct {
	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	stopped bool
	frames  int64

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan error
}

func (p *playback) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *playback) Resume() {
	p.mu.Lock()
	p.paused = false
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *playback) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.stopCh)
		p.cond.Broadcast()
		p.mu.Unlock()
	})
}

func (p *playback) Done() <-chan error {
	return p.done
}

func (p *playback) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.frames) * 20 * time.Millisecond
}

func (p *playback) run(vc *discordgo.VoiceConnection, src io.ReadCloser) {
	defer src.Close()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		p.finish(fmt.Errorf("encoder error: %w", err))
		return
	}

	if err := vc.Speaking(true); err != nil {
		log.Warn().Err(err).Msg("failed to set speaking state")
	}
	defer func() {
		_ = vc.Speaking(false)
	}()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		if !p.waitWhilePaused() {
			p.finish(ErrStopped)
			return
		}

		_, err := io.ReadFull(src, pcmBuf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			p.finish(nil)
			return
		}
		if err != nil {
			p.finish(fmt.Errorf("read error: %w", err))
			return
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			p.finish(fmt.Errorf("encode error: %w", err))
			return
		}

		select {
		case vc.OpusSend <- opus:
			p.mu.Lock()
			p.frames++
			p.mu.Unlock()
		case <-p.stopCh:
			p.finish(ErrStopped)
			return
		}
	}
}

// waitWhilePaused blocks while paused; returns false once stopped.
func (p *playback) waitWhilePaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.paused && !p.stopped {
		p.cond.Wait()
	}
	return !p.stopped
}

func (p *playback) finish(err error) {
	p.done <- err
}
