// Package discord runs the Discord gateway side of the bot: event
// handlers, command dispatch and the voice credential plumbing that
// feeds the audio node.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/command"
	"github.com/RosseteDev/NGC-2237/internal/config"
	"github.com/RosseteDev/NGC-2237/internal/lavalink"
	"github.com/RosseteDev/NGC-2237/internal/music/resolver"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
	"github.com/RosseteDev/NGC-2237/internal/storage"
)

// Bot is the Discord bot.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	node     *lavalink.Node
	sessions *session.Registry
	resolver *resolver.Resolver

	mu    sync.Mutex
	voice map[string]*voiceCreds
}

// StartBot starts the Discord bot and blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, st *storage.Storage) error {
	b := &Bot{
		cfg:     cfg,
		storage: st,
		voice:   make(map[string]*voiceCreds),
	}
	if err := b.run(ctx, cfg.DiscordToken); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg

	// everything the commands need exists before the gateway opens, so
	// no event handler can observe a partially built bot or an empty
	// command registry
	b.node = lavalink.New(lavalink.Config{
		Address:  b.cfg.LavalinkAddress,
		Password: b.cfg.LavalinkPassword,
		Secure:   b.cfg.LavalinkSecure,
	})
	b.sessions = session.NewRegistry(
		func(guildID string) session.Player { return b.node.Player(guildID) },
		channelNotifier{b: b},
		b.node,
	)
	b.resolver = resolver.New(b.node)
	b.registerCommands()

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onVoiceServerUpdate)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	// the node identifies with the bot user id, known only after Open
	b.node.SetUserID(dg.State.User.ID)
	if err := b.node.Open(ctx); err != nil {
		return fmt.Errorf("failed to open audio node: %w", err)
	}

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot session is ready.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if b.cfg.InitSlashCommands {
		for _, g := range r.Guilds {
			if err := b.syncSlashCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		}
	} else {
		log.Println("[INFO] Registering slash commands skipped")
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

// onGuildCreate is called when the bot joins a guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.cfg.InitSlashCommands {
		if err := b.syncSlashCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
		}
	}
}

// onMessageCreate dispatches prefixed text commands.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.GuildID == "" {
		return
	}

	prefix := b.guildPrefix(m.GuildID)
	name, args, ok := parsePrefixed(m.Content, prefix)
	if !ok {
		return
	}

	cmd, ok := command.Get(name)
	if !ok {
		return
	}

	ctx := &command.MessageContext{
		Session: s,
		Event:   m,
		Args:    args,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Println("[ERR] Error running command:", err)
	}
}

// onInteractionCreate dispatches slash commands.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := command.Get(name)
	if !ok {
		log.Printf("[WARN] Unknown slash command: %s", name)
		return
	}

	ctx := &command.SlashContext{
		Session: s,
		Event:   i,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Error running command /%s: %v", name, err)
	}
}

// guildPrefix returns the guild's configured prefix or the default.
func (b *Bot) guildPrefix(guildID string) string {
	prefix, err := b.storage.GuildPrefix(guildID)
	if err != nil || prefix == "" {
		return b.cfg.DefaultPrefix
	}
	return prefix
}

// parsePrefixed splits a prefixed message into a command name and its
// arguments. ok is false when the message does not start with prefix.
func parsePrefixed(content, prefix string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
