package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
)

type SkipCommand struct {
	Sessions *session.Registry
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip to the next track in the queue" }
func (c *SkipCommand) Aliases() []string   { return []string{"next"} }
func (c *SkipCommand) Group() string       { return "music" }
func (c *SkipCommand) Category() string    { return "🎵 Music" }
func (c *SkipCommand) RequireAdmin() bool  { return false }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		if err := RespondDeferred(v.Session, v.Event); err != nil {
			return fmt.Errorf("failed to send deferred response: %w", err)
		}
		return c.skip(v.Event.GuildID, code, func(content string) error {
			return EditResponse(v.Session, v.Event, content)
		})
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		return c.skip(v.Event.GuildID, code, func(content string) error {
			return Message(v.Session, v.Event.ChannelID, content)
		})
	}
	return nil
}

// skip stops the active track; the track-end event drives whatever
// comes next, so there is nothing more to do here.
func (c *SkipCommand) skip(guildID, code string, respond func(string) error) error {
	sess, ok := c.Sessions.Get(guildID)
	if !ok {
		return respond(lang.T(code, "music.errors.not_playing", nil))
	}

	remaining := sess.QueueLen()
	if err := sess.Stop(context.Background()); err != nil {
		if errors.Is(err, session.ErrNoTrackPlaying) {
			return respond(lang.T(code, "music.errors.not_playing", nil))
		}
		return respond(lang.T(code, "music.errors.unexpected", nil))
	}

	if remaining == 0 {
		return respond(lang.T(code, "music.messages.skip_last", nil))
	}
	return respond(lang.T(code, "music.messages.skip", nil))
}
