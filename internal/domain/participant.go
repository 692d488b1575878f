// Package domain contains room entities without transport or lifecycle logic.
package domain

import (
	"errors"
	"time"
)

var ErrNickEmpty = errors.New("nick empty")

// Handle identifies a participant within one connection epoch.
// The service recycles handles, so they are never compared across epochs.
type Handle int

// Participant is the local mirror of one user present in the room.
type Participant struct {
	Handle       Handle
	Nick         string
	Account      string
	Owner        bool
	Mod          bool
	Broadcasting bool
	LastMessage  time.Time
	Profile      *Profile

	self bool
}

// NewParticipant avoids raw literals in handlers.
func NewParticipant(handle Handle, nick, account string, owner, mod bool) *Participant {
	return &Participant{
		Handle:  handle,
		Nick:    nick,
		Account: account,
		Owner:   owner,
		Mod:     mod,
	}
}

// NewSelf builds the record for the connected client itself.
func NewSelf(handle Handle, nick, account string, owner, mod bool) *Participant {
	p := NewParticipant(handle, nick, account, owner, mod)
	p.self = true
	return p
}

func (p *Participant) IsSelf() bool { return p.self }

// Role is derived from the flags on every call.
func (p *Participant) Role() Role {
	return ClassifyRole(p.self, p.Owner, p.Mod, p.Account != "")
}

func (p *Participant) SetNick(nick string) error {
	if len(nick) == 0 {
		return ErrNickEmpty
	}
	p.Nick = nick
	return nil
}

// Clone returns a copy safe to hand out of the roster.
func (p *Participant) Clone() Participant {
	c := *p
	if p.Profile != nil {
		prof := *p.Profile
		c.Profile = &prof
	}
	return c
}

// Profile holds the optional fields fetched from the account profile lookup.
type Profile struct {
	Biography string `json:"biography"`
	Gender    string `json:"gender"`
	Location  string `json:"location"`
	Role      string `json:"role"`
	Age       string `json:"age"`
}
