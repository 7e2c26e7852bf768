// Package command holds the command framework and the bot's commands.
// Each command is a struct implementing Command; the Discord layer
// dispatches into the registry from its gateway handlers.
package command

import (
	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/storage"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	RequireAdmin() bool
	Run(ctx interface{}) error
}

// SlashProvider - how this command should be registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Contexts - what runtime hands you when executing a command.
// Slash command
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Args    []string
	Storage *storage.Storage
}

// Prefixed text message command
type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Args    []string
	Storage *storage.Storage
}

// VoiceGateway is what music commands need from the Discord layer:
// locating the caller's voice channel and joining it.
type VoiceGateway interface {
	FindUserVoiceState(guildID, userID string) (*discordgo.VoiceState, error)
	JoinVoice(guildID, channelID string) error
}
