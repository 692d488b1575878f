package app

import (
	"time"

	"github.com/dkeye/rtcroom/internal/adapters/ws"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/pion/webrtc/v4"
)

type State int

const (
	Disconnected State = iota
	Handshaking
	Connected
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session is a read-only view of one connect/disconnect cycle.
type Session struct {
	TraceID    string             `json:"trace_id,omitempty"`
	Room       string             `json:"room"`
	Nick       string             `json:"nick"`
	Handle     domain.Handle      `json:"handle"`
	Mod        bool               `json:"mod"`
	Owner      bool               `json:"owner"`
	State      string             `json:"state"`
	Seq        int                `json:"seq"`
	StartedAt  time.Time          `json:"started_at"`
	ICEServers []webrtc.ICEServer `json:"ice_servers,omitempty"`
}

// epoch owns everything that lives for one connection. Handlers only touch the
// epoch they were started for, so a late frame from a torn-down connection can't
// leak into the next one.
type epoch struct {
	conn   ws.Conn
	roster *core.Roster

	// guarded by Client.mu
	session Session
	seq     int

	done chan struct{}
	err  error
}

func newEpoch(conn ws.Conn, session Session) *epoch {
	return &epoch{
		conn:    conn,
		roster:  core.NewRoster(),
		session: session,
		seq:     1,
		done:    make(chan struct{}),
	}
}
