package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dkeye/rtcroom/internal/adapters/ws"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultUserAgentPrefix = "tinychat-client-webrtc-undefined_win32-"
	DefaultThrottle        = time.Second
	DefaultProfileTimeout  = 5 * time.Second
)

// Options is the immutable configuration of a Client.
type Options struct {
	Room     string
	Nick     string
	Account  string
	Password string

	FallbackVersion string
	UserAgentPrefix string
	// Endpoint is used when the token lookup does not name one.
	Endpoint string

	// PingTimeout > 0 ends the session when no frame arrives for that long.
	PingTimeout    time.Duration
	WriteTimeout   time.Duration
	Throttle       time.Duration
	ProfileTimeout time.Duration
}

// Dialer opens the transport to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (ws.Conn, error)
}

// MessageHandler receives chat and private messages that passed the throttle.
type MessageHandler func(from domain.Participant, text string, private bool)

// Deps are the collaborators of a Client. Profiles, Auth and OnMessage are optional.
type Deps struct {
	Dialer    Dialer
	Versions  core.VersionResolver
	Tokens    core.TokenResolver
	Profiles  core.ProfileLookup
	Auth      core.Authenticator
	Sink      core.Sink
	OnMessage MessageHandler
	Clock     func() time.Time
}

// Client keeps one session with a room: handshake, receive loop, dispatch and the
// single serialized send path.
type Client struct {
	opts     Options
	deps     Deps
	throttle *Throttle
	profiles singleflight.Group
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	// attempt is bumped by every Connect and Disconnect; a handshake only
	// installs its session while the attempt it started with is still current.
	attempt uint64
	nick    string
	cur     *epoch
	last    *epoch
	roster  *core.Roster
}

func New(opts Options, deps Deps) *Client {
	if opts.UserAgentPrefix == "" {
		opts.UserAgentPrefix = DefaultUserAgentPrefix
	}
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = DefaultProfileTimeout
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Sink == nil {
		deps.Sink = core.SinkFunc(func(core.Line) {})
	}
	c := &Client{
		opts:     opts,
		deps:     deps,
		throttle: NewThrottle(opts.Throttle, deps.Clock),
		logger:   log.With().Str("module", "app.client").Str("room", opts.Room).Logger(),
		nick:     opts.Nick,
		roster:   core.NewRoster(),
	}
	if c.deps.OnMessage == nil {
		c.deps.OnMessage = c.printMessage
	}
	return c
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Roster returns the roster of the current session. It is empty while disconnected.
func (c *Client) Roster() *core.Roster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster
}

// Snapshot returns the session view; defaults while disconnected.
func (c *Client) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return Session{Room: c.opts.Room, Nick: c.nick, State: c.state.String(), Seq: 1}
	}
	s := c.cur.session
	s.State = c.state.String()
	s.Seq = c.cur.seq
	s.ICEServers = append(s.ICEServers[:0:0], c.cur.session.ICEServers...)
	return s
}

// Uptime is the time since the current session was established.
func (c *Client) Uptime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.session.StartedAt.IsZero() {
		return 0
	}
	return c.deps.Clock().Sub(c.cur.session.StartedAt)
}

// Connect performs the handshake and starts the receive loop in its own goroutine.
// Setup errors are returned once and never retried; the client stays Disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = Handshaking
	c.attempt++
	attempt := c.attempt
	c.mu.Unlock()
	c.emit(zerolog.InfoLevel, core.KindSession, "Connecting to room %s", c.opts.Room)

	e, err := c.handshake(ctx, attempt)
	if err != nil {
		c.mu.Lock()
		if c.attempt == attempt && c.state == Handshaking {
			c.state = Disconnected
		}
		c.mu.Unlock()
		c.logger.Error().Err(err).Msg("handshake failed")
		c.emit(zerolog.ErrorLevel, core.KindSession, "Connect failed: %v", err)
		return err
	}

	go c.receive(e)
	return nil
}

func (c *Client) handshake(ctx context.Context, attempt uint64) (*epoch, error) {
	if c.opts.Account != "" && c.deps.Auth != nil {
		ok, err := c.deps.Auth.Authenticated(ctx, c.opts.Account, c.opts.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		if !ok {
			return nil, ErrNotAuthenticated
		}
	}

	version, err := c.deps.Versions.Version(ctx, c.opts.Room)
	if err != nil || version == "" {
		c.logger.Warn().Err(err).Str("fallback", c.opts.FallbackVersion).Msg("version lookup failed, using fallback")
		version = c.opts.FallbackVersion
	}
	c.logger.Info().Str("version", version).Msg("protocol version")

	tok, err := c.deps.Tokens.Token(ctx, c.opts.Room)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoToken, err)
	}
	if tok.Token == "" {
		return nil, ErrNoToken
	}
	endpoint := tok.Endpoint
	if endpoint == "" {
		endpoint = c.opts.Endpoint
	}
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	conn, err := c.deps.Dialer.Dial(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.attempt != attempt || c.state != Handshaking {
		c.mu.Unlock()
		c.logger.Info().Str("endpoint", endpoint).Msg("handshake superseded, dropping connection")
		_ = conn.Close()
		return nil, ErrAborted
	}
	if c.nick == "" {
		c.nick = randomNick(3, 20)
	}
	e := newEpoch(conn, Session{
		TraceID:   uuid.NewString(),
		Room:      c.opts.Room,
		Nick:      c.nick,
		StartedAt: c.deps.Clock(),
	})
	c.cur, c.last, c.roster = e, e, e.roster
	nick := c.nick
	c.mu.Unlock()

	join := protocol.JoinRoom(c.opts.UserAgentPrefix+version, tok.Token, c.opts.Room, nick)
	if err := c.sendOn(e, join); err != nil {
		c.teardown(e)
		e.err = err
		close(e.done)
		return nil, err
	}

	c.mu.Lock()
	if c.cur != e {
		c.mu.Unlock()
		e.err = ErrAborted
		close(e.done)
		return nil, ErrAborted
	}
	c.state = Connected
	c.mu.Unlock()

	c.logger.Info().Str("trace", e.session.TraceID).Str("nick", nick).Msg("joined, receive loop starting")
	return e, nil
}

// Disconnect tears down the transport, resets the session and clears the roster.
// It is safe to call at any time, including from another goroutine while the
// receive loop runs.
func (c *Client) Disconnect() {
	c.mu.Lock()
	e := c.cur
	c.cur = nil
	c.state = Disconnected
	c.attempt++
	if e != nil {
		c.roster = core.NewRoster()
	}
	c.mu.Unlock()
	if e == nil {
		return
	}
	if err := ws.CloseGoingAway(e.conn); err != nil {
		c.logger.Debug().Err(err).Msg("close transport")
	}
	e.roster.Clear()
	c.logger.Info().Str("trace", e.session.TraceID).Msg("disconnected")
	c.emit(zerolog.InfoLevel, core.KindSession, "Disconnected from %s", c.opts.Room)
}

// Reconnect is Disconnect followed by Connect with the same room and nick.
func (c *Client) Reconnect(ctx context.Context) error {
	c.Disconnect()
	return c.Connect(ctx)
}

// Wait blocks until the receive loop of the latest session exits and returns its
// terminal error: nil after a local Disconnect, *ClosedError when the service closed
// the session, or the transport error.
func (c *Client) Wait() error {
	c.mu.Lock()
	e := c.last
	c.mu.Unlock()
	if e == nil {
		return nil
	}
	<-e.done
	return e.err
}

// Send stamps cmd with the next sequence id and writes it.
func (c *Client) Send(cmd protocol.Command) error {
	c.mu.Lock()
	e, state := c.cur, c.state
	c.mu.Unlock()
	if e == nil || state != Connected {
		return ErrNotConnected
	}
	return c.sendOn(e, cmd)
}

// sendOn is the only write path: assign id, serialize, write, advance, all under mu.
func (c *Client) sendOn(e *epoch, cmd protocol.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != e {
		return ErrNotConnected
	}
	data, err := cmd.Marshal(e.seq)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", cmd.Tag, err)
	}
	if c.opts.WriteTimeout > 0 {
		_ = e.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	}
	if err := e.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Error().Err(err).Str("tc", cmd.Tag).Msg("write")
		return fmt.Errorf("write %s: %w", cmd.Tag, err)
	}
	c.logger.Debug().Str("tc", cmd.Tag).Int("req", e.seq).Msg("sent")
	e.seq++
	return nil
}

// teardown ends e after a remote close or transport failure. It is a no-op when
// e is no longer the current session.
func (c *Client) teardown(e *epoch) bool {
	c.mu.Lock()
	if c.cur != e {
		c.mu.Unlock()
		return false
	}
	c.cur = nil
	c.state = Disconnected
	c.roster = core.NewRoster()
	c.mu.Unlock()
	_ = e.conn.Close()
	e.roster.Clear()
	return true
}

func (c *Client) isCurrent(e *epoch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur == e
}

// self returns the own handle and moderator flag of e.
func (c *Client) self(e *epoch) (handle domain.Handle, mod bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.session.Handle, e.session.Mod
}

func (c *Client) emit(level zerolog.Level, kind core.Kind, format string, args ...any) {
	c.deps.Sink.Write(core.Line{
		Time:  c.deps.Clock(),
		Level: level,
		Kind:  kind,
		Text:  fmt.Sprintf(format, args...),
	})
}

const nickAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomNick(minLen, maxLen int) string {
	n := minLen + rand.IntN(maxLen-minLen+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = nickAlphabet[rand.IntN(len(nickAlphabet))]
	}
	return string(b)
}
