package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/resolver"
	"github.com/astionic/astionic/internal/music/track"
)

type PlayCommand struct{}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a link, playlist or search query in voice" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Group() string       { return "music" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "input",
				Description: "Link, playlist link or song name",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event
	deps := slash.Deps

	var input string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "input" {
			input = opt.StringValue()
		}
	}
	if input == "" {
		return command.RespondEphemeral(session, event, ":warning: Input is required.")
	}

	if err := command.Defer(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	p, err := ensureVoice(slash)
	if err != nil {
		if err == errNotInVoice {
			return command.FollowupWarning(session, event, ":warning: Join a voice channel first!", "")
		}
		return command.FollowupWarning(session, event, ":warning: Error joining channel.", "Please ensure I have the correct permissions.")
	}

	input = resolver.Normalize(input)

	// Announce each track as it starts in the channel the request came
	// from; a later play command retargets the announcements.
	channelID := event.ChannelID
	p.SetOnTrackStart(func(t track.Track) {
		_, err := session.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
			Title:       ":musical_note: Now Playing",
			Description: fmt.Sprintf("[%s](%s)", t.DisplayTitle(), t.Locator),
			Color:       command.EmbedColor,
			Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: t.DisplayThumbnail()},
		})
		if err != nil {
			log.Warn().Str("channel", channelID).Err(err).Msg("now-playing announcement failed")
		}
	})

	if deps.Resolver.Classify(input) == resolver.KindPlaylist {
		if err := command.FollowupEmbed(session, event, &discordgo.MessageEmbed{
			Title: ":notes: Added to playlist!",
			Color: command.EmbedColor,
		}); err != nil {
			return err
		}

		// Members trickle into the queue as they resolve; playback can
		// begin while the rest is still being fetched. Stopping the
		// player ends the loop.
		go func() {
			resolved, failed, err := deps.Resolver.ResolvePlaylist(context.Background(), input, func(t track.Track) bool {
				if err := p.Enqueue(t); err != nil {
					return false
				}
				recordTrack(deps, event.GuildID, t)
				return true
			})
			if err != nil {
				log.Warn().Str("playlist", input).Err(err).Msg("playlist resolution aborted")
				return
			}
			log.Info().Str("playlist", input).Int("resolved", resolved).Int("failed", failed).Msg("playlist enqueued")
		}()
		return nil
	}

	t, err := deps.Resolver.Resolve(context.Background(), input)
	if err != nil {
		return command.FollowupWarning(session, event, ":warning: Failed to resolve track.", err.Error())
	}

	if err := p.Enqueue(t); err != nil {
		return command.FollowupWarning(session, event, ":warning: Playback unavailable.", err.Error())
	}
	recordTrack(deps, event.GuildID, t)

	return command.FollowupEmbed(session, event, &discordgo.MessageEmbed{
		Title:       ":notes: Added to playlist!",
		Description: fmt.Sprintf("[%s](%s)", t.DisplayTitle(), t.Locator),
		Color:       command.EmbedColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: t.DisplayThumbnail()},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: t.DisplayArtist(), Inline: true},
			{Name: "Duration", Value: fmtDuration(t.Duration, t.IsLive), Inline: true},
		},
	})
}
