package command

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/storage"
)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{"recent"} }
func (c *HistoryCommand) Group() string       { return "music" }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }
func (c *HistoryCommand) RequireAdmin() bool  { return false }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		embed, empty := c.render(v.Storage, v.Event.GuildID, code)
		if empty {
			return RespondEphemeral(v.Session, v.Event, lang.T(code, "music.messages.history_empty", nil))
		}
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
		})
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		embed, empty := c.render(v.Storage, v.Event.GuildID, code)
		if empty {
			return Message(v.Session, v.Event.ChannelID, lang.T(code, "music.messages.history_empty", nil))
		}
		return MessageEmbedSend(v.Session, v.Event.ChannelID, embed)
	}
	return nil
}

func (c *HistoryCommand) render(st *storage.Storage, guildID, code string) (*discordgo.MessageEmbed, bool) {
	history, err := st.FetchTrackHistory(guildID)
	if err != nil || len(history) == 0 {
		return nil, true
	}

	// newest first
	var b strings.Builder
	for i := len(history) - 1; i >= 0; i-- {
		rec := history[i]
		if rec.URI != "" {
			fmt.Fprintf(&b, "[%s](%s)\n", rec.Title, rec.URI)
		} else {
			fmt.Fprintf(&b, "%s\n", rec.Title)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       lang.T(code, "music.embed.history_title", nil),
		Description: b.String(),
		Color:       EmbedColor,
	}, false
}
