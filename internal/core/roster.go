package core

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Roster is the live mirror of the room: participants by handle and the ban list.
// Dispatch is the only structural mutator; the lock lets enrichment goroutines and
// status readers share it.
type Roster struct {
	mu    sync.RWMutex
	self  *domain.Participant
	users map[domain.Handle]*domain.Participant
	bans  map[int]domain.Ban
}

func NewRoster() *Roster {
	return &Roster{
		users: make(map[domain.Handle]*domain.Participant),
		bans:  make(map[int]domain.Ban),
	}
}

// SetSelf stores the client's own record. It is kept apart from the participant map,
// so role views never include it.
func (r *Roster) SetSelf(p *domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.self = p
	delete(r.users, p.Handle)
	log.Debug().Str("module", "core.roster").Int("handle", int(p.Handle)).Msg("self set")
}

func (r *Roster) Self() (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.self == nil {
		return domain.Participant{}, false
	}
	return r.self.Clone(), true
}

func (r *Roster) isSelf(h domain.Handle) bool {
	return r.self != nil && r.self.Handle == h
}

// Upsert inserts p or refreshes the flags of the existing record with the same handle.
// The account of an existing record is never replaced. It reports false for the own handle.
func (r *Roster) Upsert(p *domain.Participant) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isSelf(p.Handle) {
		return domain.Participant{}, false
	}
	cur, ok := r.users[p.Handle]
	if !ok {
		r.users[p.Handle] = p
		log.Debug().Str("module", "core.roster").Int("handle", int(p.Handle)).Str("nick", p.Nick).Msg("participant added")
		return p.Clone(), true
	}
	cur.Nick = p.Nick
	cur.Owner = p.Owner
	cur.Mod = p.Mod
	if cur.Account == "" {
		cur.Account = p.Account
	}
	log.Debug().Str("module", "core.roster").Int("handle", int(p.Handle)).Str("nick", p.Nick).Msg("participant updated")
	return cur.Clone(), true
}

// Get looks up a handle, including the own record.
func (r *Roster) Get(h domain.Handle) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p := r.lookup(h); p != nil {
		return p.Clone(), true
	}
	return domain.Participant{}, false
}

func (r *Roster) lookup(h domain.Handle) *domain.Participant {
	if r.isSelf(h) {
		return r.self
	}
	return r.users[h]
}

// Rename changes the nick in place and returns the previous one.
func (r *Roster) Rename(h domain.Handle, nick string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.lookup(h)
	if p == nil {
		return "", ErrUnknownHandle
	}
	old := p.Nick
	if err := p.SetNick(nick); err != nil {
		return old, err
	}
	return old, nil
}

func (r *Roster) Remove(h domain.Handle) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.users[h]
	if !ok {
		return domain.Participant{}, false
	}
	delete(r.users, h)
	log.Debug().Str("module", "core.roster").Int("handle", int(h)).Msg("participant removed")
	return p.Clone(), true
}

func (r *Roster) SetBroadcasting(h domain.Handle, on bool) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.lookup(h)
	if p == nil {
		return domain.Participant{}, false
	}
	p.Broadcasting = on
	return p.Clone(), true
}

// MarkMessage stores at as the last-message time of h and returns the previous value.
func (r *Roster) MarkMessage(h domain.Handle, at time.Time) (prev time.Time, p domain.Participant, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.lookup(h)
	if cur == nil {
		return time.Time{}, domain.Participant{}, false
	}
	prev = cur.LastMessage
	cur.LastMessage = at
	return prev, cur.Clone(), true
}

// ApplyProfile attaches profile data fetched for account. It is a no-op when the
// handle has left or now belongs to someone else.
func (r *Roster) ApplyProfile(h domain.Handle, account string, prof *domain.Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.users[h]
	if !ok || p.Account != account || prof == nil {
		return false
	}
	cp := *prof
	p.Profile = &cp
	return true
}

func (r *Roster) AddBan(b domain.Ban) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bans[b.ID] = b
}

func (r *Roster) RemoveBan(id int) (domain.Ban, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bans[id]
	if ok {
		delete(r.bans, id)
	}
	return b, ok
}

// ReplaceBans swaps the whole ban list for a fresh one from the service.
func (r *Roster) ReplaceBans(bans []domain.Ban) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bans = make(map[int]domain.Ban, len(bans))
	for _, b := range bans {
		r.bans[b.ID] = b
	}
}

func (r *Roster) Bans() []domain.Ban {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Values(r.bans)
	slices.SortFunc(out, func(a, b domain.Ban) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Clear drops everything, own record included.
func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.self = nil
	r.users = make(map[domain.Handle]*domain.Participant)
	r.bans = make(map[int]domain.Ban)
	log.Debug().Str("module", "core.roster").Msg("cleared")
}

// All returns every participant except the own record, ordered by handle.
func (r *Roster) All() []domain.Participant {
	return r.filter(func(*domain.Participant) bool { return true })
}

func (r *Roster) ByRole(role domain.Role) []domain.Participant {
	return r.filter(func(p *domain.Participant) bool { return p.Role() == role })
}

func (r *Roster) Owners() []domain.Participant     { return r.ByRole(domain.RoleOwner) }
func (r *Roster) Moderators() []domain.Participant { return r.ByRole(domain.RoleModerator) }
func (r *Roster) SignedIn() []domain.Participant   { return r.ByRole(domain.RoleSignedIn) }
func (r *Roster) Lurkers() []domain.Participant    { return r.ByRole(domain.RoleLurker) }

func (r *Roster) Broadcasting() []domain.Participant {
	return r.filter(func(p *domain.Participant) bool { return p.Broadcasting })
}

func (r *Roster) filter(keep func(*domain.Participant) bool) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	picked := lo.Filter(lo.Values(r.users), func(p *domain.Participant, _ int) bool { return keep(p) })
	out := lo.Map(picked, func(p *domain.Participant, _ int) domain.Participant { return p.Clone() })
	slices.SortFunc(out, func(a, b domain.Participant) int { return cmp.Compare(a.Handle, b.Handle) })
	return out
}
