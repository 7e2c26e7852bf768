package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

// voiceCreds collects the two halves of a voice handshake. Discord
// delivers them as separate gateway events and the audio node needs
// both before it can connect.
type voiceCreds struct {
	sessionID string
	token     string
	endpoint  string
}

func (c *voiceCreds) complete() bool {
	return c.sessionID != "" && c.token != "" && c.endpoint != ""
}

// FindUserVoiceState finds the voice state of a user.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}

// JoinVoice asks Discord for a voice connection without opening a UDP
// leg; the audio node takes over once the handshake events arrive.
func (b *Bot) JoinVoice(guildID, channelID string) error {
	if err := b.dg.ChannelVoiceJoinManual(guildID, channelID, false, true); err != nil {
		return fmt.Errorf("voice join failed: %w", err)
	}

	// Restore the guild's saved volume on this player.
	if vol, err := b.storage.GuildDefaultVolume(guildID); err == nil && vol > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.node.Player(guildID).SetVolume(ctx, vol); err != nil {
			log.Printf("[WARN] [Voice] Failed to restore volume for guild %s: %v", guildID, err)
		}
	}

	return nil
}

// onVoiceServerUpdate receives the server half of the voice handshake.
func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, e *discordgo.VoiceServerUpdate) {
	b.mu.Lock()
	creds, ok := b.voice[e.GuildID]
	if !ok {
		creds = &voiceCreds{}
		b.voice[e.GuildID] = creds
	}
	creds.token = e.Token
	creds.endpoint = e.Endpoint
	snapshot := *creds
	b.mu.Unlock()

	b.forwardVoice(e.GuildID, snapshot)
}

// onVoiceStateUpdate tracks the bot's own voice session id, the client
// half of the handshake.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || e.UserID != s.State.User.ID {
		return
	}

	b.mu.Lock()
	if e.ChannelID == "" {
		// Bot left the channel; the credentials are dead.
		delete(b.voice, e.GuildID)
		b.mu.Unlock()
		return
	}
	creds, ok := b.voice[e.GuildID]
	if !ok {
		creds = &voiceCreds{}
		b.voice[e.GuildID] = creds
	}
	creds.sessionID = e.SessionID
	snapshot := *creds
	b.mu.Unlock()

	b.forwardVoice(e.GuildID, snapshot)
}

// forwardVoice hands complete credentials to the audio node.
func (b *Bot) forwardVoice(guildID string, creds voiceCreds) {
	if !creds.complete() || b.node == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := b.node.Player(guildID).UpdateVoice(ctx, lavalink.VoiceState{
			Token:     creds.token,
			Endpoint:  creds.endpoint,
			SessionID: creds.sessionID,
		})
		if err != nil {
			log.Printf("[ERR] [Voice] Failed to forward voice credentials for guild %s: %v", guildID, err)
		}
	}()
}
