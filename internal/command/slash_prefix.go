package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
)

type PrefixCommand struct{}

func (c *PrefixCommand) Name() string        { return "prefix" }
func (c *PrefixCommand) Description() string { return "Set the text command prefix for this server" }
func (c *PrefixCommand) Aliases() []string   { return []string{} }
func (c *PrefixCommand) Group() string       { return "settings" }
func (c *PrefixCommand) Category() string    { return "⚙️ Settings" }
func (c *PrefixCommand) RequireAdmin() bool  { return true }

func (c *PrefixCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prefix",
				Description: "New prefix, 1-5 characters",
				Required:    true,
			},
		},
	}
}

func (c *PrefixCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		var prefix string
		for _, opt := range v.Event.ApplicationCommandData().Options {
			if opt.Name == "prefix" {
				prefix = opt.StringValue()
			}
		}
		return RespondEphemeral(v.Session, v.Event, c.apply(v, prefix, code))
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		prefix := ""
		if len(v.Args) > 0 {
			prefix = v.Args[0]
		}
		content := c.applyWith(v.Storage.SetGuildPrefix, v.Event.GuildID, prefix, code)
		return Message(v.Session, v.Event.ChannelID, content)
	}
	return nil
}

func (c *PrefixCommand) apply(ctx *SlashContext, prefix, code string) string {
	return c.applyWith(ctx.Storage.SetGuildPrefix, ctx.Event.GuildID, prefix, code)
}

func (c *PrefixCommand) applyWith(save func(guildID, prefix string) error, guildID, prefix, code string) string {
	if !ValidPrefix(prefix) {
		return lang.T(code, "settings.prefix_invalid", nil)
	}
	if err := save(guildID, prefix); err != nil {
		return lang.T(code, "music.errors.unexpected", nil)
	}
	return lang.T(code, "settings.prefix_changed", map[string]string{"prefix": prefix})
}

// ValidPrefix accepts short prefixes without whitespace.
func ValidPrefix(prefix string) bool {
	if len(prefix) < 1 || len(prefix) > 5 {
		return false
	}
	return !strings.ContainsAny(prefix, " \t\n")
}
