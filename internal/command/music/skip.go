package music

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/player"
)

type SkipCommand struct{}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip to the next track in the queue" }
func (c *SkipCommand) Aliases() []string   { return []string{"next"} }
func (c *SkipCommand) Group() string       { return "music" }
func (c *SkipCommand) Category() string    { return "🎵 Music" }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
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

	skipped, err := p.Skip()
	if err != nil {
		switch {
		case errors.Is(err, player.ErrNothingPlaying):
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Nothing is playing.", "")
		case errors.Is(err, player.ErrInterjecting):
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Announcement in progress.", "Try again in a moment.")
		default:
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Failed to skip.", err.Error())
		}
	}

	desc := fmt.Sprintf("Skipped **%s**.", skipped.DisplayTitle())
	if now, _, ok := p.NowPlaying(); ok {
		desc += fmt.Sprintf("\nNow playing **%s**.", now.DisplayTitle())
	} else {
		desc += "\nThe queue is empty."
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       ":track_next: Skipped.",
		Description: desc,
		Color:       command.EmbedColor,
	})
}
