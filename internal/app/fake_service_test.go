package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/rtcroom/internal/adapters/ws"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/mocks"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

const (
	testRoom    = "lobby"
	testNick    = "bot"
	testVersion = "2.0.22-1"
	testToken   = "tok-123"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeService accepts websocket connections the way the room service does.
type fakeService struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newFakeService(t *testing.T) *fakeService {
	f := &fakeService{conns: make(chan *websocket.Conn, 4)}
	upgrader := websocket.Upgrader{
		Subprotocols: []string{ws.Subprotocol},
		CheckOrigin:  func(*http.Request) bool { return true },
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.conns <- c
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) endpoint() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

// accept returns the next server side connection.
func (f *fakeService) accept(t *testing.T) *peer {
	t.Helper()
	select {
	case c := <-f.conns:
		t.Cleanup(func() { _ = c.Close() })
		return &peer{t: t, conn: c}
	case <-time.After(2 * time.Second):
		t.Fatal("no connection")
		return nil
	}
}

func (f *fakeService) idle(t *testing.T) {
	t.Helper()
	select {
	case <-f.conns:
		t.Fatal("unexpected connection")
	case <-time.After(50 * time.Millisecond):
	}
}

// peer is the service end of one session.
type peer struct {
	t    *testing.T
	conn *websocket.Conn
}

func (p *peer) send(frame string) {
	p.t.Helper()
	require.NoError(p.t, p.conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func (p *peer) read() map[string]any {
	p.t.Helper()
	_ = p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := p.conn.ReadMessage()
	require.NoError(p.t, err)
	var frame map[string]any
	require.NoError(p.t, json.Unmarshal(data, &frame))
	return frame
}

// sync pings the client and returns every frame it sent before the pong. The
// receive loop is sequential, so all frames sent earlier have been dispatched.
func (p *peer) sync() []map[string]any {
	p.t.Helper()
	p.send(`{"tc":"ping"}`)
	var before []map[string]any
	for {
		frame := p.read()
		if frame["tc"] == "pong" {
			return before
		}
		before = append(before, frame)
	}
}

var testDialer = ws.Dialer{Origin: "https://tinychat.com", HandshakeTimeout: time.Second}

// gatedDialer holds the first dial open until release is closed.
type gatedDialer struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedDialer() *gatedDialer {
	return &gatedDialer{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedDialer) Dial(ctx context.Context, endpoint string) (ws.Conn, error) {
	conn, err := testDialer.Dial(ctx, endpoint)
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return conn, err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingSink struct {
	mu    sync.Mutex
	lines []core.Line
}

func (s *recordingSink) Write(l core.Line) {
	s.mu.Lock()
	s.lines = append(s.lines, l)
	s.mu.Unlock()
}

func (s *recordingSink) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, l.Text)
	}
	return out
}

type harness struct {
	t        *testing.T
	svc      *fakeService
	versions *mocks.MockVersionResolver
	tokens   *mocks.MockTokenResolver
	profiles *mocks.MockProfileLookup
	auth     *mocks.MockAuthenticator
	sink     *recordingSink
	clock    *fakeClock
	// dialer replaces the plain websocket dialer when set.
	dialer Dialer
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	return &harness{
		t:        t,
		svc:      newFakeService(t),
		versions: mocks.NewMockVersionResolver(ctrl),
		tokens:   mocks.NewMockTokenResolver(ctrl),
		profiles: mocks.NewMockProfileLookup(ctrl),
		auth:     mocks.NewMockAuthenticator(ctrl),
		sink:     &recordingSink{},
		clock:    newFakeClock(),
	}
}

// expectHandshake lets n connects resolve version and token.
func (h *harness) expectHandshake(n int) {
	h.versions.EXPECT().Version(gomock.Any(), testRoom).Return(testVersion, nil).Times(n)
	h.tokens.EXPECT().Token(gomock.Any(), testRoom).Return(core.Token{Token: testToken, Endpoint: h.svc.endpoint()}, nil).Times(n)
}

func (h *harness) client(opts Options, onMessage MessageHandler) *Client {
	if opts.Room == "" {
		opts.Room = testRoom
	}
	if opts.Nick == "" {
		opts.Nick = testNick
	}
	if opts.FallbackVersion == "" {
		opts.FallbackVersion = "2.0.10-296"
	}
	var dialer Dialer = testDialer
	if h.dialer != nil {
		dialer = h.dialer
	}
	c := New(opts, Deps{
		Dialer:    dialer,
		Versions:  h.versions,
		Tokens:    h.tokens,
		Profiles:  h.profiles,
		Auth:      h.auth,
		Sink:      h.sink,
		OnMessage: onMessage,
		Clock:     h.clock.Now,
	})
	h.t.Cleanup(func() {
		c.Disconnect()
		_ = c.Wait()
	})
	return c
}

// connect runs the handshake and returns the service end with the join frame read.
func (h *harness) connect(c *Client) (*peer, map[string]any) {
	h.t.Helper()
	require.NoError(h.t, c.Connect(context.Background()))
	p := h.svc.accept(h.t)
	join := p.read()
	require.Equal(h.t, "join", join["tc"])
	return p, join
}

// joinAs answers the join with a joined frame for handle 1.
func (p *peer) joinAs(nick string, mod bool) {
	p.t.Helper()
	modFlag := "false"
	if mod {
		modFlag = "true"
	}
	p.send(`{"tc":"joined","self":{"handle":1,"nick":"` + nick + `","mod":` + modFlag + `},"room":{"name":"lobby","topic":"hi"}}`)
}
