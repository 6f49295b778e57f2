// Package transport wraps the voice side of Discord: joining a channel,
// pushing Opus audio into it, and leaving. The player only sees the
// three small interfaces below, so tests can run without a gateway.
package transport

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz

	// AcquireTimeout bounds join/leave operations against the gateway.
	AcquireTimeout = 10 * time.Second
)

var (
	// ErrTimeout is returned when a transport operation did not
	// complete within AcquireTimeout.
	ErrTimeout = errors.New("voice transport operation timed out")

	// ErrStopped is delivered on Done when playback was cut short by
	// an explicit Stop rather than the stream ending.
	ErrStopped = errors.New("playback stopped")
)

// Playback is the handle for one audio stream being sent to voice.
// Pause keeps the stream open so Resume continues from the same
// position instead of restarting.
type Playback interface {
	Pause()
	Resume()
	Stop()

	// Done yields exactly one value when the stream ends: nil for a
	// natural end, ErrStopped after Stop, or the underlying failure.
	Done() <-chan error

	// Position returns how much audio has been sent so far.
	Position() time.Duration
}

// Conn is a live connection to one voice channel.
type Conn interface {
	ChannelID() string
	Play(src io.ReadCloser) (Playback, error)
	Disconnect(ctx context.Context) error
}

// Connector establishes voice connections for a guild.
type Connector interface {
	Connect(ctx context.Context, guildID, channelID string) (Conn, error)
}
