package command

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/storage"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly drops invocations that arrive outside a guild (DMs).
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if v, ok := ctx.(*SlashContext); ok && v.Event.GuildID == "" {
					return nil
				}
				if v, ok := ctx.(*MessageContext); ok && v.Event.GuildID == "" {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLogger wraps a command to record its execution in the
// guild's command history.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				err := cmd.Run(ctx)

				switch v := ctx.(type) {
				case *SlashContext:
					if v.Event.Member == nil || v.Storage == nil {
						break
					}
					user := v.Event.Member.User
					logCommand(v.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name(), v.Args)

				case *MessageContext:
					if v.Storage == nil {
						break
					}
					user := v.Event.Author
					logCommand(v.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name(), v.Args)
				}

				return err
			},
		}
	}
}

func logCommand(st *storage.Storage, guildID, channelID, userID, username, name string, args []string) {
	param := ""
	if len(args) > 0 {
		param = args[0]
	}
	e := st.AppendCommandToHistory(guildID, storage.CommandHistoryRecord{
		ChannelID: channelID,
		UserID:    userID,
		Username:  username,
		Command:   name,
		Param:     param,
		Datetime:  time.Now(),
	})
	if e != nil {
		log.Printf("[WARN] Failed to log command /%s: %v", name, e)
	}
}
