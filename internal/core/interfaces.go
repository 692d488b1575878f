//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../../mocks/mock_interfaces.go -package=mocks

package core

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownHandle = errors.New("unknown handle")
	ErrNoProfile     = errors.New("no profile")
)

// Token is the join credential and the websocket endpoint it is valid for.
type Token struct {
	Token    string
	Endpoint string
}

// VersionResolver discovers the protocol version the service currently expects.
// An error means "none"; callers fall back to a configured constant.
type VersionResolver interface {
	Version(ctx context.Context, room string) (string, error)
}

// TokenResolver fetches a join token for a room. Failure aborts the connect attempt.
type TokenResolver interface {
	Token(ctx context.Context, room string) (Token, error)
}

// ProfileLookup fetches optional profile fields for an account, best effort.
type ProfileLookup interface {
	Profile(ctx context.Context, account string) (*domain.Profile, error)
}

// Authenticator reports whether account may join signed in. Implementations decide
// how strict that check is.
type Authenticator interface {
	Authenticated(ctx context.Context, account, password string) (bool, error)
}

type Kind int

const (
	KindInfo Kind = iota
	KindSession
	KindJoin
	KindLeave
	KindChat
	KindPrivate
	KindModeration
	KindMedia
	KindSystem
)

// Line is one human-readable event for the console or chat log.
type Line struct {
	Time  time.Time
	Level zerolog.Level
	Kind  Kind
	Text  string
}

// Sink receives every rendered line. Implementations must be safe for concurrent use.
type Sink interface {
	Write(Line)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Line)

func (f SinkFunc) Write(l Line) { f(l) }
