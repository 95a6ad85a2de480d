package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hoofix/services/session"
	"hoofix/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Room is the join message naming the room the session subscribes to.
type Room string

const (
	RoomProvider Room = "join_provider_room"
	RoomUser     Room = "join_user_room"
)

// JoinMode selects whether the join message carries the raw credential or
// just the identity id.
type JoinMode string

const (
	JoinByToken JoinMode = "token"
	JoinByID    JoinMode = "id"
)

func ParseJoinMode(s string) JoinMode {
	if JoinMode(s) == JoinByID {
		return JoinByID
	}
	return JoinByToken
}

// ConnectionListener is told when the channel comes up or goes down.
type ConnectionListener interface {
	Connected()
	Disconnected(err error)
}

type Config struct {
	URL            string
	Room           Room
	Mode           JoinMode
	ReconnectDelay time.Duration
	PingInterval   time.Duration
	PongWait       time.Duration
}

func (c Config) withDefaults() Config {
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.Mode == "" {
		c.Mode = JoinByToken
	}
	return c
}

// Client keeps one realtime connection open for a page session. Events are
// routed on the read goroutine, one at a time.
type Client struct {
	cfg      Config
	creds    session.CredentialStore
	router   *Router
	listener ConnectionListener
	logger   *zap.Logger
	dialer   *websocket.Dialer

	mu        sync.Mutex
	connected bool
}

func NewClient(cfg Config, creds session.CredentialStore, router *Router, listener ConnectionListener, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:      cfg.withDefaults(),
		creds:    creds,
		router:   router,
		listener: listener,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Listen connects, joins and routes events until ctx is done or the session
// has no usable credential. A dropped connection is retried after
// ReconnectDelay. Events missed while disconnected are not replayed.
func (c *Client) Listen(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, utils.ErrNoIdentity) {
			c.logger.Info("realtime stopped: no identity")
			return err
		}
		c.logger.Warn("realtime connection lost, reconnecting",
			zap.Error(err),
			zap.Duration("delay", c.cfg.ReconnectDelay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	identity, token, err := session.Current(ctx, c.creds)
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial realtime: %w", err)
	}
	defer conn.Close()

	join, err := joinEnvelope(c.cfg.Room, c.cfg.Mode, identity.ID, token)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return fmt.Errorf("join %s: %w", c.cfg.Room, err)
	}

	c.setConnected(true)
	c.logger.Info("realtime connected",
		zap.String("room", string(c.cfg.Room)),
		zap.String("mode", string(c.cfg.Mode)),
		zap.String("identity", identity.ID),
	)
	if c.listener != nil {
		c.listener.Connected()
	}

	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(ctx, conn, done)

	readErr := c.readLoop(conn)

	c.setConnected(false)
	if c.listener != nil && ctx.Err() == nil {
		c.listener.Disconnected(readErr)
	}
	return readErr
}

// keepAlive pings on an interval and closes the connection when ctx ends so
// the blocked read returns.
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				c.logger.Debug("realtime ping failed", zap.Error(err))
				conn.Close()
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("realtime read error", zap.Error(err))
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		c.router.RouteFrame(frame)
	}
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

func joinEnvelope(room Room, mode JoinMode, id, token string) ([]byte, error) {
	payload := map[string]string{}
	switch {
	case mode == JoinByToken:
		payload["token"] = token
	case room == RoomProvider:
		payload["provider_id"] = id
	default:
		payload["user_id"] = id
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode join: %w", err)
	}
	return json.Marshal(Envelope{Event: string(room), Data: data})
}
