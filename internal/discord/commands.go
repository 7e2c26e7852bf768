package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/command"
)

// registerCommands wires the command structs with their dependencies
// and puts them in the registry.
func (b *Bot) registerCommands() {
	command.Register(command.ApplyMiddlewares(
		&command.PlayCommand{Voice: b, Sessions: b.sessions, Resolver: b.resolver},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.SkipCommand{Sessions: b.sessions},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.StopCommand{Sessions: b.sessions},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.VolumeCommand{Sessions: b.sessions},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.HistoryCommand{},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.LanguageCommand{},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
	command.Register(command.ApplyMiddlewares(
		&command.PrefixCommand{},
		command.WithGuildOnly(),
		command.WithAdminOnly(),
		command.WithCommandLogger(),
	))
}

// syncSlashCommands overwrites the guild's slash commands with the
// current definitions.
func (b *Bot) syncSlashCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	var defs []*discordgo.ApplicationCommand
	for _, c := range command.All() {
		if sp, ok := c.(command.SlashProvider); ok {
			if def := sp.SlashDefinition(); def != nil {
				defs = append(defs, def)
			}
		}
	}

	if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, defs); err != nil {
		return fmt.Errorf("bulk overwrite failed for guild %s: %w", guildID, err)
	}
	log.Printf("[INFO] [%s] Registered %d slash commands", guildID, len(defs))
	return nil
}

func (b *Bot) appID() (string, error) {
	if b.dg.State.User == nil {
		return "", fmt.Errorf("bot user not available yet")
	}
	return b.dg.State.User.ID, nil
}
