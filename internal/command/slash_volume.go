package command

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
	"github.com/RosseteDev/NGC-2237/internal/storage"
)

type VolumeCommand struct {
	Sessions *session.Registry
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Set the playback volume (0-100)" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }
func (c *VolumeCommand) Group() string       { return "music" }
func (c *VolumeCommand) Category() string    { return "🎵 Music" }
func (c *VolumeCommand) RequireAdmin() bool  { return false }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minValue := float64(0)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Volume percentage",
				Required:    true,
				MinValue:    &minValue,
				MaxValue:    100,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		var level int
		for _, opt := range v.Event.ApplicationCommandData().Options {
			if opt.Name == "level" {
				level = int(opt.IntValue())
			}
		}
		if err := RespondDeferred(v.Session, v.Event); err != nil {
			return fmt.Errorf("failed to send deferred response: %w", err)
		}
		return c.setVolume(v.Event.GuildID, level, code, v.Storage, func(content string) error {
			return EditResponse(v.Session, v.Event, content)
		})
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		if len(v.Args) == 0 {
			return Message(v.Session, v.Event.ChannelID, lang.T(code, "music.errors.unexpected", nil))
		}
		level, err := strconv.Atoi(v.Args[0])
		if err != nil || level < 0 || level > 100 {
			return Message(v.Session, v.Event.ChannelID, lang.T(code, "music.errors.unexpected", nil))
		}
		return c.setVolume(v.Event.GuildID, level, code, v.Storage, func(content string) error {
			return Message(v.Session, v.Event.ChannelID, content)
		})
	}
	return nil
}

func (c *VolumeCommand) setVolume(guildID string, level int, code string, st *storage.Storage, respond func(string) error) error {
	sess := c.Sessions.GetOrCreate(guildID)
	if err := sess.SetVolume(context.Background(), level); err != nil {
		log.Printf("[ERR] [Volume] Failed to set volume in guild %s: %v", guildID, err)
		return respond(lang.T(code, "music.errors.system_unavailable", nil))
	}

	// Remember it so the next session starts at the same level.
	if st != nil {
		if err := st.SetGuildDefaultVolume(guildID, level); err != nil {
			log.Printf("[WARN] Failed to persist volume for guild %s: %v", guildID, err)
		}
	}

	return respond(lang.T(code, "music.messages.volume_changed", map[string]string{
		"volume": strconv.Itoa(level),
	}))
}
