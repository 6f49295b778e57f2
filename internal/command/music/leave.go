package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/transport"
)

type LeaveCommand struct{}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Stop playback and leave the voice channel" }
func (c *LeaveCommand) Aliases() []string   { return []string{"stop"} }
func (c *LeaveCommand) Group() string       { return "music" }
func (c *LeaveCommand) Category() string    { return "🎵 Music" }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	if err := command.Defer(slash.Session, slash.Event); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	if _, ok := currentPlayer(slash); !ok {
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Not in a voice channel.", "")
	}

	rmCtx, cancel := context.WithTimeout(context.Background(), transport.AcquireTimeout)
	defer cancel()
	slash.Deps.Sessions.Remove(rmCtx, slash.Event.GuildID)

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title: ":wave: Left the voice channel.",
		Color: command.EmbedColor,
	})
}
