package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/command"
)

const queuePageSize = 10

type QueueCommand struct{}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the pending queue" }
func (c *QueueCommand) Aliases() []string   { return []string{} }
func (c *QueueCommand) Group() string       { return "music" }
func (c *QueueCommand) Category() string    { return "🎵 Music" }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
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

	var b strings.Builder
	if now, _, ok := p.NowPlaying(); ok {
		fmt.Fprintf(&b, "**Now:** [%s](%s)\n\n", now.DisplayTitle(), now.Locator)
	}

	pending := p.Queue()
	if len(pending) == 0 {
		b.WriteString("The queue is empty.")
	}
	for i, t := range pending {
		if i == queuePageSize {
			fmt.Fprintf(&b, "…and %d more.", len(pending)-queuePageSize)
			break
		}
		if t.Playable() {
			fmt.Fprintf(&b, "%d. [%s](%s) `%s`\n", i+1, t.DisplayTitle(), t.Locator, fmtDuration(t.Duration, t.IsLive))
		} else {
			fmt.Fprintf(&b, "%d. %s — failed to resolve\n", i+1, t.Title)
		}
	}

	return command.FollowupEmbed(slash.Session, slash.Event, &discordgo.MessageEmbed{
		Title:       ":scroll: Queue",
		Description: b.String(),
		Color:       command.EmbedColor,
	})
}
