package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
)

type NowPlayingCommand struct{}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the current track" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }
func (c *NowPlayingCommand) Group() string       { return "music" }
func (c *NowPlayingCommand) Category() string    { return "🎵 Music" }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *NowPlayingCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	if err := command.Defer(slash.Session, slash.Event); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	p, ok := currentPlayer(slash)
	if !ok {
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Not in a voice channel.", "")
	}

	now, position, ok := p.NowPlaying()
	if !ok {
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Nothing is playing.", "")
	}

	progress := fmtDuration(position, false)
	if !now.IsLive && now.Duration > 0 {
		progress = fmt.Sprintf("%s / %s", progress, fmtDuration(now.Duration, false))
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf(":musical_note: Now Playing (%s)", p.State()),
		Description: fmt.Sprintf("[%s](%s)", now.DisplayTitle(), now.Locator),
		Color:       command.EmbedColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: now.DisplayThumbnail()},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: now.DisplayArtist(), Inline: true},
			{Name: "Position", Value: progress, Inline: true},
		},
	})
}
