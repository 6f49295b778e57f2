package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{} }
func (c *HistoryCommand) Group() string       { return "music" }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	if err := command.Defer(slash.Session, slash.Event); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	records, err := slash.Deps.Storage.FetchTrackHistory(slash.Event.GuildID)
	if err != nil {
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: Failed to read history.", err.Error())
	}
	if len(records) == 0 {
		return command.FollowupWarning(slash.Session, slash.Event, ":warning: No tracks played yet.", "")
	}

	var b strings.Builder
	// Newest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(&b, "%d. [%s](%s) — %s\n", len(records)-i, r.Title, r.Locator, r.Artist)
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       ":notebook: Recently played",
		Description: b.String(),
		Color:       command.EmbedColor,
	})
}
