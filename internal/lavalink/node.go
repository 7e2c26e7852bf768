// Package lavalink is a minimal client for a Lavalink v4 audio node. It
// covers what the bot needs: track loading over REST, per-guild player
// updates, and the websocket event stream that reports track end and
// exception events.
package lavalink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/RosseteDev/NGC-2237/pkg/retrylimit"
)

var (
	ErrNodeNotReady = errors.New("lavalink node has no active session")
)

type Config struct {
	Address  string // host:port, no scheme
	Password string
	Secure   bool
	UserID   string // bot application user id, required for the websocket
}

// Node is one Lavalink node connection: REST client plus the websocket
// session used for events.
type Node struct {
	cfg     Config
	http    *http.Client
	limiter *retrylimit.AdaptiveLimiter

	mu        sync.RWMutex
	sessionID string
	handlers  map[string]*guildSub // guildID -> subscription
}

func New(cfg Config) *Node {
	return &Node{
		cfg:      cfg,
		http:     &http.Client{Timeout: 15 * time.Second},
		limiter:  retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		handlers: make(map[string]*guildSub),
	}
}

// SetUserID sets the bot user id sent on the websocket handshake. The
// id is only known after the Discord gateway opens, so it is set late;
// it must be set before Open.
func (n *Node) SetUserID(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.UserID = id
}

func (n *Node) restURL(path string) string {
	scheme := "http"
	if n.cfg.Secure {
		scheme = "https"
	}
	return scheme + "://" + n.cfg.Address + path
}

// SessionID returns the node session id, or "" before the ready frame.
func (n *Node) SessionID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sessionID
}

// LoadTracks resolves an identifier (URL or "ytsearch:..." style prefix
// query) into a load result. An "error" load type is returned as a
// *LoadError; "empty" is a valid result, not an error.
func (n *Node) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	endpoint := n.restURL("/v4/loadtracks?identifier=" + url.QueryEscape(identifier))

	var result LoadResult
	err := retrylimit.WithRetryMax(ctx, func() error {
		return n.getJSON(ctx, endpoint, &result)
	}, n.limiter, 3)
	if err != nil {
		return nil, fmt.Errorf("loadtracks request failed: %w", err)
	}

	if result.LoadType == LoadTypeError {
		loadErr := &LoadError{}
		if err := json.Unmarshal(result.Data, loadErr); err != nil {
			loadErr.Message = "unknown node error"
		}
		return nil, loadErr
	}

	return &result, nil
}

// PlayerUpdate is a partial player state change. Nil fields are left
// untouched by the node.
type PlayerUpdate struct {
	Track  *PlayerTrack `json:"track,omitempty"`
	Volume *int         `json:"volume,omitempty"`
	Paused *bool        `json:"paused,omitempty"`
	Voice  *VoiceState  `json:"voice,omitempty"`
}

// PlayerTrack selects what the player should play. A nil Encoded stops
// the current track.
type PlayerTrack struct {
	Encoded *string `json:"encoded"`
}

// VoiceState carries the Discord voice credentials the node needs to
// join a voice server.
type VoiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

// UpdatePlayer patches the player state for a guild.
func (n *Node) UpdatePlayer(ctx context.Context, guildID string, update PlayerUpdate) error {
	sessionID := n.SessionID()
	if sessionID == "" {
		return ErrNodeNotReady
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode player update: %w", err)
	}

	endpoint := n.restURL("/v4/sessions/" + sessionID + "/players/" + guildID + "?noReplace=false")
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", n.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("player update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("player update rejected: %s", readErrorBody(resp))
	}
	return nil
}

// DestroyPlayer removes the player for a guild from the node.
func (n *Node) DestroyPlayer(ctx context.Context, guildID string) error {
	sessionID := n.SessionID()
	if sessionID == "" {
		return ErrNodeNotReady
	}

	endpoint := n.restURL("/v4/sessions/" + sessionID + "/players/" + guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", n.cfg.Password)

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("player destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("player destroy rejected: %s", readErrorBody(resp))
	}
	return nil
}

func (n *Node) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &retrylimit.FatalError{Err: err}
	}
	req.Header.Set("Authorization", n.cfg.Password)

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &retrylimit.FatalError{Err: fmt.Errorf("node rejected credentials: %s", resp.Status)}
	default:
		return fmt.Errorf("node returned %s: %s", resp.Status, readErrorBody(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode node response: %w", err)
	}
	return nil
}

func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil || len(data) == 0 {
		return resp.Status
	}
	return string(data)
}

func logNode(format string, args ...any) {
	log.Printf("[Lavalink] "+format, args...)
}
