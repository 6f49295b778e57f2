package music

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/player"
)

type ResumeCommand struct{}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume the paused track" }
func (c *ResumeCommand) Aliases() []string   { return []string{} }
func (c *ResumeCommand) Group() string       { return "music" }
func (c *ResumeCommand) Category() string    { return "🎵 Music" }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ResumeCommand) Run(ctx interface{}) error {
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

	if err := p.Resume(); err != nil {
		if errors.Is(err, player.ErrNothingPlaying) {
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Nothing is playing.", "")
		}
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Failed to resume music.", err.Error())
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title: ":arrow_forward: Resumed.",
		Color: command.EmbedColor,
	})
}
