// Package music implements the playback commands: play, join, leave,
// pause, resume, skip, clear, shuffle, queue, nowplaying and history.
package music

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/player"
	"github.com/astionic/astionic/internal/music/track"
	"github.com/astionic/astionic/internal/music/transport"
	"github.com/astionic/astionic/internal/storage"
)

var errNotInVoice = errors.New("user is not in a voice channel")

// ensureVoice returns the guild's player, joined to the invoking
// user's voice channel. The player is created on first use; a player
// already in another channel moves.
func ensureVoice(slash *command.SlashContext) (*player.Player, error) {
	guildID := slash.Event.GuildID
	userID := slash.Event.Member.User.ID

	vs, err := slash.Deps.Voice.FindUserVoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return nil, errNotInVoice
	}

	p := slash.Deps.Sessions.GetOrCreate(guildID)

	ctx, cancel := context.WithTimeout(context.Background(), transport.AcquireTimeout)
	defer cancel()
	if err := p.Join(ctx, vs.ChannelID); err != nil {
		return nil, err
	}
	return p, nil
}

// currentPlayer returns the guild's connected player without creating
// or joining anything.
func currentPlayer(slash *command.SlashContext) (*player.Player, bool) {
	p, ok := slash.Deps.Sessions.Get(slash.Event.GuildID)
	if !ok || !p.Connected() {
		return nil, false
	}
	return p, true
}

func recordTrack(deps *command.Deps, guildID string, t track.Track) {
	if deps.Storage == nil || !t.Playable() {
		return
	}
	err := deps.Storage.AppendTrackToHistory(guildID, storage.TrackHistoryRecord{
		Locator:  t.Locator,
		Title:    t.DisplayTitle(),
		Artist:   t.DisplayArtist(),
		Duration: t.Duration,
		PlayedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("track history write failed")
	}
}

// fmtDuration renders a track length as m:ss or h:mm:ss. Livestreams
// and unknown lengths render as LIVE.
func fmtDuration(d time.Duration, live bool) string {
	if live || d == 0 {
		return "LIVE"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
