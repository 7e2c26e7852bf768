package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/lavalink"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
	"github.com/RosseteDev/NGC-2237/internal/storage"
)

// RenderMessage turns a playback message into a localized embed. The
// Discord layer uses it too, so autonomous announcements and command
// replies look the same.
func RenderMessage(msg session.Message, code string) *discordgo.MessageEmbed {
	switch msg.Kind {
	case session.MessageNowPlaying:
		embed := trackEmbed(msg.Track, code)
		embed.Title = lang.T(code, "music.embed.now_playing_title", nil)
		return embed

	case session.MessageQueued:
		embed := trackEmbed(msg.Track, code)
		embed.Title = lang.T(code, "music.embed.added_title", nil)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   lang.T(code, "music.embed.position", nil),
			Value:  strconv.Itoa(msg.Position),
			Inline: true,
		})
		return embed

	case session.MessagePlaylistAdded:
		return &discordgo.MessageEmbed{
			Description: lang.T(code, "music.messages.playlist_added", map[string]string{
				"count":    strconv.Itoa(msg.Count),
				"playlist": msg.Playlist,
			}),
			Color: EmbedColor,
		}

	case session.MessageTrackFailed:
		return &discordgo.MessageEmbed{
			Description: lang.T(code, "music.errors.playback_failed", map[string]string{
				"title": msg.Track.Title,
			}),
			Color: EmbedColor,
		}

	case session.MessageNothingLeft:
		return &discordgo.MessageEmbed{
			Description: lang.T(code, "music.messages.nothing_left", nil),
			Color:       EmbedColor,
		}
	}

	return &discordgo.MessageEmbed{
		Description: lang.T(code, "music.errors.unexpected", nil),
		Color:       EmbedColor,
	}
}

func trackEmbed(info lavalink.TrackInfo, code string) *discordgo.MessageEmbed {
	title := info.Title
	if title == "" {
		title = lang.T(code, "music.embed.unknown", nil)
	}

	description := title
	if info.URI != "" {
		description = fmt.Sprintf("[%s](%s)", title, info.URI)
	}

	embed := &discordgo.MessageEmbed{
		Description: description,
		Color:       EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   lang.T(code, "music.embed.author", nil),
				Value:  orUnknown(info.Author, code),
				Inline: true,
			},
			{
				Name:   lang.T(code, "music.embed.duration", nil),
				Value:  formatDuration(info, code),
				Inline: true,
			},
		},
	}

	if info.SourceName == "youtube" && info.Identifier != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
			URL: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", info.Identifier),
		}
	}

	return embed
}

func orUnknown(s, code string) string {
	if s == "" {
		return lang.T(code, "music.embed.unknown", nil)
	}
	return s
}

// formatDuration renders a track length in mm:ss, or h:mm:ss for long
// tracks. Streams have no meaningful length.
func formatDuration(info lavalink.TrackInfo, code string) string {
	if info.IsStream {
		return lang.T(code, "music.embed.live", nil)
	}

	totalSeconds := info.Length / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// GuildLanguage resolves the language for a guild, falling back to the
// default when unset or on storage errors.
func GuildLanguage(st *storage.Storage, guildID string) string {
	if st == nil {
		return lang.DefaultLanguage
	}
	code, err := st.GuildLanguage(guildID)
	if err != nil || code == "" {
		return lang.DefaultLanguage
	}
	return code
}

// interactionReplier delivers playback messages by editing the deferred
// reply of the interaction that created them.
type interactionReplier struct {
	s    *discordgo.Session
	e    *discordgo.InteractionCreate
	code string
}

func (r interactionReplier) Edit(_ context.Context, msg session.Message) error {
	embed := RenderMessage(msg, r.code)
	_, err := r.s.InteractionResponseEdit(r.e.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}

// channelReplier is the prefixed-command counterpart: there is no
// deferred reply to edit, so delivery is a plain channel message.
type channelReplier struct {
	s         *discordgo.Session
	channelID string
	code      string
}

func (r channelReplier) Edit(_ context.Context, msg session.Message) error {
	return MessageEmbedSend(r.s, r.channelID, RenderMessage(msg, r.code))
}
