package command

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/storage"
)

// Middleware wraps a command with a cross-cutting behaviour.
type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	return w.wrap(ctx)
}

// SlashDefinition forwards to the wrapped command so middleware does
// not hide it from slash registration.
func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// WithGuildOnly rejects invocations outside a guild.
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if slash, ok := ctx.(*SlashContext); ok && slash.Event.GuildID == "" {
					return RespondEphemeral(slash.Session, slash.Event, "You must be in a guild to use this command.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLogger records each invocation in the guild's command
// history before running it.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if slash, ok := ctx.(*SlashContext); ok && slash.Deps.Storage != nil {
					rec := storage.CommandHistoryRecord{
						ChannelID: slash.Event.ChannelID,
						Command:   cmd.Name(),
						Param:     firstStringOption(slash.Event),
						Datetime:  time.Now().UTC(),
					}
					if m := slash.Event.Member; m != nil && m.User != nil {
						rec.UserID = m.User.ID
						rec.Username = m.User.Username
					}
					if err := slash.Deps.Storage.AppendCommandToHistory(slash.Event.GuildID, rec); err != nil {
						log.Warn().Err(err).Str("command", cmd.Name()).Msg("command history write failed")
					}
				}
				return cmd.Run(ctx)
			},
		}
	}
}

func firstStringOption(e *discordgo.InteractionCreate) string {
	for _, opt := range e.ApplicationCommandData().Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
