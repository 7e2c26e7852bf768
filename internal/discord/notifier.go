package discord

import (
	"context"

	"github.com/RosseteDev/NGC-2237/internal/command"
	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
)

// channelNotifier posts autonomous playback announcements (track
// started mid-queue, playback failures) to the guild's text channel.
type channelNotifier struct {
	b *Bot
}

func (n channelNotifier) Send(_ context.Context, channelID string, msg session.Message) error {
	code := n.b.cfg.DefaultLanguage
	if code == "" {
		code = lang.DefaultLanguage
	}
	if ch, err := n.b.dg.State.Channel(channelID); err == nil {
		code = command.GuildLanguage(n.b.storage, ch.GuildID)
	}
	return command.MessageEmbedSend(n.b.dg, channelID, command.RenderMessage(msg, code))
}
