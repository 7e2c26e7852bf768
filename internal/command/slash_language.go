package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
)

type LanguageCommand struct{}

func (c *LanguageCommand) Name() string        { return "language" }
func (c *LanguageCommand) Description() string { return "Set the bot language for this server" }
func (c *LanguageCommand) Aliases() []string   { return []string{"lang"} }
func (c *LanguageCommand) Group() string       { return "settings" }
func (c *LanguageCommand) Category() string    { return "⚙️ Settings" }
func (c *LanguageCommand) RequireAdmin() bool  { return true }

func (c *LanguageCommand) SlashDefinition() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(lang.Supported()))
	for _, code := range lang.Supported() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: code, Value: code})
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Language code",
				Required:    true,
				Choices:     choices,
			},
		},
	}
}

func (c *LanguageCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		var requested string
		for _, opt := range v.Event.ApplicationCommandData().Options {
			if opt.Name == "code" {
				requested = opt.StringValue()
			}
		}
		return c.setLanguage(v, requested, code)
	case *MessageContext:
		code := GuildLanguage(v.Storage, v.Event.GuildID)
		requested := ""
		if len(v.Args) > 0 {
			requested = v.Args[0]
		}
		content := c.apply(v.Storage.SetGuildLanguage, v.Event.GuildID, requested, code)
		return Message(v.Session, v.Event.ChannelID, content)
	}
	return nil
}

func (c *LanguageCommand) setLanguage(ctx *SlashContext, requested, code string) error {
	content := c.apply(ctx.Storage.SetGuildLanguage, ctx.Event.GuildID, requested, code)
	return RespondEphemeral(ctx.Session, ctx.Event, content)
}

func (c *LanguageCommand) apply(save func(guildID, language string) error, guildID, requested, code string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if !lang.IsSupported(requested) {
		return lang.T(code, "settings.language_invalid", map[string]string{
			"language":  requested,
			"available": strings.Join(lang.Supported(), ", "),
		})
	}
	if err := save(guildID, requested); err != nil {
		return lang.T(code, "music.errors.unexpected", nil)
	}
	return lang.T(requested, "settings.language_changed", map[string]string{"language": requested})
}
