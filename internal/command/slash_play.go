package command

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
	"github.com/RosseteDev/NGC-2237/internal/lavalink"
	"github.com/RosseteDev/NGC-2237/internal/music/resolver"
	"github.com/RosseteDev/NGC-2237/internal/music/session"
	"github.com/RosseteDev/NGC-2237/internal/storage"
)

type PlayCommand struct {
	Voice    VoiceGateway
	Sessions *session.Registry
	Resolver *resolver.Resolver
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track, playlist or search query" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }
func (c *PlayCommand) Group() string       { return "music" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }
func (c *PlayCommand) RequireAdmin() bool  { return false }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Link or search query",
				Required:    true,
			},
		},
	}
}

// playRequest is the transport-independent view of one play invocation.
// Slash and prefixed paths build one and share the rest of the flow.
type playRequest struct {
	guildID   string
	channelID string
	userID    string
	query     string
	code      string
	store     *storage.Storage
	reply     session.Replier
	fail      func(content string) error
}

func (c *PlayCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *SlashContext:
		return c.runSlash(v)
	case *MessageContext:
		return c.runMessage(v)
	}
	return nil
}

func (c *PlayCommand) runSlash(ctx *SlashContext) error {
	s := ctx.Session
	e := ctx.Event
	code := GuildLanguage(ctx.Storage, e.GuildID)

	var query string
	for _, opt := range e.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if err := RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	return c.play(playRequest{
		guildID:   e.GuildID,
		channelID: e.ChannelID,
		userID:    e.Member.User.ID,
		query:     query,
		code:      code,
		store:     ctx.Storage,
		reply:     interactionReplier{s: s, e: e, code: code},
		fail: func(content string) error {
			return EditResponse(s, e, content)
		},
	})
}

func (c *PlayCommand) runMessage(ctx *MessageContext) error {
	s := ctx.Session
	m := ctx.Event
	code := GuildLanguage(ctx.Storage, m.GuildID)

	return c.play(playRequest{
		guildID:   m.GuildID,
		channelID: m.ChannelID,
		userID:    m.Author.ID,
		query:     strings.Join(ctx.Args, " "),
		code:      code,
		store:     ctx.Storage,
		reply:     channelReplier{s: s, channelID: m.ChannelID, code: code},
		fail: func(content string) error {
			return Message(s, m.ChannelID, content)
		},
	})
}

func (c *PlayCommand) play(req playRequest) error {
	if strings.TrimSpace(req.query) == "" {
		return req.fail(lang.T(req.code, "music.errors.no_results", map[string]string{"query": req.query}))
	}

	voiceState, err := c.Voice.FindUserVoiceState(req.guildID, req.userID)
	if err != nil {
		return req.fail(lang.T(req.code, "music.errors.voice_required", nil))
	}

	if err := c.Voice.JoinVoice(req.guildID, voiceState.ChannelID); err != nil {
		log.Printf("[ERR] [Play] Failed to join voice channel in guild %s: %v", req.guildID, err)
		return req.fail(lang.T(req.code, "music.errors.system_unavailable", nil))
	}

	outcome, err := c.Resolver.Resolve(context.Background(), req.query)
	if err != nil {
		log.Printf("[ERR] [Play] Failed to resolve %q: %v", req.query, err)
		return req.fail(lang.T(req.code, "music.errors.system_unavailable", nil))
	}

	origin := session.Origin{ChannelID: req.channelID, Reply: req.reply}
	sess := c.Sessions.GetOrCreate(req.guildID)

	switch outcome.Kind {
	case resolver.KindEmpty:
		return req.fail(lang.T(req.code, "music.errors.no_results", map[string]string{"query": req.query}))

	case resolver.KindPlaylist:
		sess.EnqueuePlaylist(context.Background(), outcome.Playlist, outcome.Tracks, origin)
		c.recordHistory(req, outcome.Tracks...)

	default:
		// A search result enqueues only the best match.
		sess.Enqueue(context.Background(), outcome.Tracks[0], origin)
		c.recordHistory(req, outcome.Tracks[0])
	}

	return nil
}

func (c *PlayCommand) recordHistory(req playRequest, tracks ...lavalink.Track) {
	if req.store == nil {
		return
	}
	for _, t := range tracks {
		err := req.store.AppendTrackToHistory(req.guildID, storage.TrackHistoryRecord{
			Title:    t.Info.Title,
			URI:      t.Info.URI,
			PlayedAt: time.Now(),
		})
		if err != nil {
			log.Printf("[WARN] Failed to record track history for guild %s: %v", req.guildID, err)
			return
		}
	}
}
