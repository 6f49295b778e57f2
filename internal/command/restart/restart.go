// Package restart implements the restart command: it records the
// requesting message in the signal file and asks the process to exit
// with the restart code, so the supervising script brings up a fresh
// instance that confirms back in the same channel.
package restart

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/restart"
)

type RestartCommand struct{}

func (c *RestartCommand) Name() string        { return "restart" }
func (c *RestartCommand) Description() string { return "Restart the bot" }
func (c *RestartCommand) Aliases() []string   { return []string{} }
func (c *RestartCommand) Group() string       { return "system" }
func (c *RestartCommand) Category() string    { return "⚙️ System" }

func (c *RestartCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *RestartCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event

	if err := command.Respond(session, event, "Attempting restart"); err != nil {
		return fmt.Errorf("failed to respond: %w", err)
	}

	reply, err := session.InteractionResponse(event.Interaction)
	if err != nil {
		return fmt.Errorf("failed to fetch restart reply: %w", err)
	}

	if err := restart.Write(restart.Signal{
		ChannelID: reply.ChannelID,
		MessageID: reply.ID,
	}); err != nil {
		return err
	}

	slash.Deps.RequestRestart()
	return nil
}
