package music

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/player"
)

type PauseCommand struct{}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Group() string       { return "music" }
func (c *PauseCommand) Category() string    { return "🎵 Music" }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PauseCommand) Run(ctx interface{}) error {
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

	if err := p.Pause(); err != nil {
		if errors.Is(err, player.ErrNothingPlaying) {
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Nothing is playing.", "")
		}
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Failed to pause music.", err.Error())
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title: ":pause_button: Paused.",
		Color: command.EmbedColor,
	})
}
