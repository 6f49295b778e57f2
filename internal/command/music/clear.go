package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
)

type ClearCommand struct{}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Clear the queue, keeping the current track" }
func (c *ClearCommand) Aliases() []string   { return []string{} }
func (c *ClearCommand) Group() string       { return "music" }
func (c *ClearCommand) Category() string    { return "🎵 Music" }

func (c *ClearCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ClearCommand) Run(ctx interface{}) error {
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

	n := p.Clear()
	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       ":wastebasket: Queue cleared.",
		Description: fmt.Sprintf("Dropped %d pending track(s).", n),
		Color:       command.EmbedColor,
	})
}
