package app

import (
	"errors"
	"sort"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

func (c *Client) handleJoined(e *epoch, ev protocol.Joined) {
	s := ev.Self
	c.mu.Lock()
	e.session.Handle = s.Handle
	e.session.Mod = s.Mod
	e.session.Owner = s.Owner
	if s.Nick != "" {
		e.session.Nick = s.Nick
		c.nick = s.Nick
	}
	c.mu.Unlock()

	e.roster.SetSelf(domain.NewSelf(s.Handle, s.Nick, s.Account, s.Owner, s.Mod))
	c.logger.Info().Int("handle", int(s.Handle)).Bool("mod", s.Mod).Bool("owner", s.Owner).Msg("joined")
	c.emit(zerolog.InfoLevel, core.KindSession, "Client joined the room: %s:%d", s.Nick, s.Handle)

	if s.Mod {
		c.refreshBanList(e)
	}
}

func (c *Client) handleRoomInfo(room map[string]any) {
	if len(room) == 0 {
		return
	}
	keys := make([]string, 0, len(room))
	for k := range room {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ev := c.logger.Debug()
	c.emit(zerolog.InfoLevel, core.KindInfo, "## Room Information ##")
	for _, k := range keys {
		ev = ev.Interface(k, room[k])
		c.emit(zerolog.InfoLevel, core.KindInfo, "%s: %v", k, room[k])
	}
	ev.Msg("room info")
}

func (c *Client) handleUserList(e *epoch, ev protocol.UserList) {
	for _, u := range ev.Users {
		p, ok := e.roster.Upsert(u.Participant())
		if !ok {
			continue
		}
		c.announce(p, "Joins")
	}
	c.logger.Info().Int("count", e.roster.Len()).Msg("userlist synced")
}

func (c *Client) handleJoin(e *epoch, ev protocol.Join) {
	p, ok := e.roster.Upsert(ev.Participant())
	if !ok {
		return
	}
	if p.Account == "" {
		c.emit(zerolog.InfoLevel, core.KindJoin, "%s:%d joined the room", p.Nick, p.Handle)
		return
	}
	c.enrich(e, p.Handle, p.Account)
	c.announce(p, "Joined")
}

// announce prints a participant with a color per role.
func (c *Client) announce(p domain.Participant, verb string) {
	switch p.Role() {
	case domain.RoleOwner:
		c.emit(zerolog.InfoLevel, core.KindModeration, "%s room owner: %s:%d:%s", verb, p.Nick, p.Handle, p.Account)
	case domain.RoleModerator:
		c.emit(zerolog.InfoLevel, core.KindModeration, "%s moderator: %s:%d:%s", verb, p.Nick, p.Handle, p.Account)
	case domain.RoleSignedIn:
		c.emit(zerolog.InfoLevel, core.KindJoin, "%s: %s:%d:%s", verb, p.Nick, p.Handle, p.Account)
	default:
		c.emit(zerolog.InfoLevel, core.KindJoin, "%s: %s:%d", verb, p.Nick, p.Handle)
	}
}

// handleNick renames in place. A rename for a handle we never saw is logged and ignored.
func (c *Client) handleNick(e *epoch, ev protocol.Nick) {
	old, err := e.roster.Rename(ev.Handle, ev.Nick)
	if err != nil {
		if errors.Is(err, core.ErrUnknownHandle) {
			c.logger.Warn().Int("handle", int(ev.Handle)).Str("nick", ev.Nick).Msg("nick for unknown handle")
			return
		}
		c.logger.Warn().Err(err).Int("handle", int(ev.Handle)).Msg("nick rejected")
		return
	}
	if self, _ := c.self(e); self == ev.Handle {
		c.mu.Lock()
		e.session.Nick = ev.Nick
		c.nick = ev.Nick
		c.mu.Unlock()
	}
	c.emit(zerolog.InfoLevel, core.KindInfo, "%s:%d Changed nick to: %s", old, ev.Handle, ev.Nick)
}

func (c *Client) handleQuit(e *epoch, ev protocol.Quit) {
	p, ok := e.roster.Remove(ev.Handle)
	if !ok {
		return
	}
	c.emit(zerolog.InfoLevel, core.KindLeave, "%s:%d Left the room.", p.Nick, p.Handle)
}

func (c *Client) handlePublish(e *epoch, ev protocol.Publish) {
	p, ok := e.roster.SetBroadcasting(ev.Handle, ev.On)
	if !ok {
		c.logger.Warn().Int("handle", int(ev.Handle)).Bool("on", ev.On).Msg("publish for unknown handle")
		return
	}
	if ev.On {
		c.emit(zerolog.InfoLevel, core.KindMedia, "%s:%d is broadcasting.", p.Nick, p.Handle)
		return
	}
	c.emit(zerolog.InfoLevel, core.KindMedia, "%s:%d stopped broadcasting.", p.Nick, p.Handle)
}
