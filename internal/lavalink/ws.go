package lavalink

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

func (n *Node) wsURL() string {
	scheme := "ws"
	if n.cfg.Secure {
		scheme = "wss"
	}
	return scheme + "://" + n.cfg.Address + "/v4/websocket"
}

// Open connects the event websocket and keeps it alive until ctx is
// canceled, reconnecting with backoff on failure. It returns after the
// first connection attempt; the read loop runs in the background.
func (n *Node) Open(ctx context.Context) error {
	conn, err := n.dial(ctx)
	if err != nil {
		return err
	}
	go n.runReadLoop(ctx, conn)
	return nil
}

func (n *Node) dial(ctx context.Context) (*websocket.Conn, error) {
	n.mu.RLock()
	userID := n.cfg.UserID
	sessionID := n.sessionID
	n.mu.RUnlock()

	headers := map[string][]string{
		"Authorization": {n.cfg.Password},
		"User-Id":       {userID},
		"Client-Name":   {"NGC-2237/1.0"},
	}
	if sessionID != "" {
		headers["Session-Id"] = []string{sessionID}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, n.wsURL(), headers)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (n *Node) runReadLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		n.readUntilClosed(ctx, conn)
		conn = nil

		// reconnect with backoff until ctx says otherwise
		delay := time.Second
		for conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			var err error
			conn, err = n.dial(ctx)
			if err != nil {
				logNode("Reconnect failed: %v (retrying in %v)", err, delay)
				if delay < 30*time.Second {
					delay *= 2
				}
			}
		}
		logNode("Reconnected to node")
	}
}

func (n *Node) readUntilClosed(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// unblock ReadMessage when ctx is canceled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logNode("Websocket closed: %v", err)
			}
			return
		}
		n.handleMessage(data)
	}
}
