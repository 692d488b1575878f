package protocol

import (
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Event is one decoded inbound frame. The set of implementations is closed.
type Event interface {
	Tag() string
}

// UserInfo is the participant shape shared by joined, userlist and join.
type UserInfo struct {
	Handle  domain.Handle `json:"handle" validate:"required"`
	Nick    string        `json:"nick"`
	Account string        `json:"username"`
	Mod     bool          `json:"mod"`
	Owner   bool          `json:"owner"`
}

func (u UserInfo) Participant() *domain.Participant {
	return domain.NewParticipant(u.Handle, u.Nick, u.Account, u.Owner, u.Mod)
}

type Ping struct{}

type Closed struct {
	Code int `json:"error"`
}

type Joined struct {
	Self UserInfo       `json:"self"`
	Room map[string]any `json:"room"`
}

type UserList struct {
	Users []UserInfo `json:"users" validate:"dive"`
}

type Join struct {
	UserInfo
}

type Nick struct {
	Handle domain.Handle `json:"handle" validate:"required"`
	Nick   string        `json:"nick"`
}

type Quit struct {
	Handle domain.Handle `json:"handle" validate:"required"`
}

// BanEntry is one ban as the service reports it.
type BanEntry struct {
	ID      int           `json:"id"`
	Nick    string        `json:"nick"`
	Account string        `json:"username"`
	Handle  domain.Handle `json:"handle"`
}

func (b BanEntry) Ban() domain.Ban {
	return domain.Ban{ID: b.ID, Nick: b.Nick, Account: b.Account, Handle: b.Handle}
}

type Ban struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
	BanEntry
}

// Unban treats a missing success field as success.
type Unban struct {
	Success *bool  `json:"success"`
	Reason  string `json:"reason"`
	BanEntry
}

func (u Unban) Failed() bool { return u.Success != nil && !*u.Success }

type BanList struct {
	Success bool       `json:"success"`
	Reason  string     `json:"reason"`
	Items   []BanEntry `json:"items"`
}

// Message covers both msg and pvtmsg.
type Message struct {
	Private bool          `json:"-"`
	Handle  domain.Handle `json:"handle" validate:"required"`
	Text    string        `json:"text"`
}

// Publish covers both publish and unpublish.
type Publish struct {
	On     bool          `json:"-"`
	Handle domain.Handle `json:"handle" validate:"required"`
}

type SysMsg struct {
	Text string `json:"text"`
}

// PlaybackItem describes a shared video. Durations and offsets are seconds.
type PlaybackItem struct {
	ID       string  `json:"id"`
	Duration float64 `json:"duration"`
	Offset   float64 `json:"offset"`
	Title    string  `json:"title,omitempty"`
	Image    string  `json:"image,omitempty"`
}

type Playlist struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason"`
	Items   []PlaybackItem `json:"items"`
}

type PlaybackAction int

const (
	ActionPlay PlaybackAction = iota
	ActionPause
	ActionStop
)

// Playback covers yut_play, yut_pause and yut_stop.
type Playback struct {
	Action PlaybackAction `json:"-"`
	Handle domain.Handle  `json:"handle"`
	Item   PlaybackItem   `json:"item"`
}

// IsSeek reports whether a play or pause jumped into the video rather than starting it.
func (p Playback) IsSeek() bool { return p.Item.Offset > 0 }

type ICEServers struct {
	Servers []webrtc.ICEServer `json:"iceservers"`
}

// Unknown carries a frame whose tag is not part of the protocol.
type Unknown struct {
	Type string
	Raw  []byte
}

func (Ping) Tag() string       { return TagPing }
func (Closed) Tag() string     { return TagClosed }
func (Joined) Tag() string     { return TagJoined }
func (UserList) Tag() string   { return TagUserList }
func (Join) Tag() string       { return TagJoin }
func (Nick) Tag() string       { return TagNick }
func (Quit) Tag() string       { return TagQuit }
func (Ban) Tag() string        { return TagBan }
func (Unban) Tag() string      { return TagUnban }
func (BanList) Tag() string    { return TagBanList }
func (SysMsg) Tag() string     { return TagSysMsg }
func (Playlist) Tag() string   { return TagPlaylist }
func (ICEServers) Tag() string { return TagICEServers }
func (u Unknown) Tag() string  { return u.Type }

func (m Message) Tag() string {
	if m.Private {
		return TagPvtMsg
	}
	return TagMsg
}

func (p Publish) Tag() string {
	if p.On {
		return TagPublish
	}
	return TagUnpublish
}

func (p Playback) Tag() string {
	switch p.Action {
	case ActionPause:
		return TagPause
	case ActionStop:
		return TagStop
	default:
		return TagPlay
	}
}
