package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
)

type JoinCommand struct{}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Join your voice channel" }
func (c *JoinCommand) Aliases() []string   { return []string{} }
func (c *JoinCommand) Group() string       { return "music" }
func (c *JoinCommand) Category() string    { return "🎵 Music" }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *JoinCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	if err := command.Defer(slash.Session, slash.Event); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	p, err := ensureVoice(slash)
	if err != nil {
		if err == errNotInVoice {
			return command.FollowupWarning(slash.Session, slash.Event, ":warning: Join a voice channel first!", "")
		}
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Error joining channel.", "Please ensure I have the correct permissions.")
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       ":loud_sound: Joined!",
		Description: fmt.Sprintf("Connected to <#%s>.", p.ChannelID()),
		Color:       command.EmbedColor,
	})
}
