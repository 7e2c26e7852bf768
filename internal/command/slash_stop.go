package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
)

type StopCommand struct {
	Sessions *session.Registry
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{} }
func (c *StopCommand) Group() string       { return "music" }
func (c *StopCommand) Category() string    { return "🎵 Music" }
func (c *StopCommand) RequireAdmin() bool  { return false }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		if err := RespondDeferred(v.Session, v.Event); err != nil {
			return fmt.Errorf("failed to send deferred response: %w", err)
		}
		return c.stop(v.Event.GuildID, code, func(content string) error {
			return EditResponse(v.Session, v.Event, content)
		})
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		return c.stop(v.Event.GuildID, code, func(content string) error {
			return Message(v.Session, v.Event.ChannelID, content)
		})
	}
	return nil
}

// stop clears the queue first so the ensuing track-end event finds
// nothing to advance to.
func (c *StopCommand) stop(guildID, code string, respond func(string) error) error {
	sess, ok := c.Sessions.Get(guildID)
	if !ok {
		return respond(lang.T(code, "music.errors.not_playing", nil))
	}

	sess.Clear()
	if err := sess.Stop(context.Background()); err != nil {
		if errors.Is(err, session.ErrNoTrackPlaying) {
			return respond(lang.T(code, "music.errors.not_playing", nil))
		}
		return respond(lang.T(code, "music.errors.unexpected", nil))
	}

	return respond(lang.T(code, "music.messages.stop", nil))
}
