package tinychat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second)
}

func TestClient_Version(t *testing.T) {
	req := require.New(t)
	c := newServer(t, map[string]string{
		"/room/lobby": `<html><head><link rel="manifest" href="/webrtc/2.0.22-4/manifest.json"></head></html>`,
		"/room/blank": `<html></html>`,
	})

	version, err := c.Version(context.Background(), "lobby")
	req.NoError(err)
	req.Equal("2.0.22-4", version)

	_, err = c.Version(context.Background(), "blank")
	req.ErrorIs(err, ErrVersionNotFound)
}

func TestClient_Token(t *testing.T) {
	req := require.New(t)
	c := newServer(t, map[string]string{
		"/api/v1.0/room/token/lobby": `{"result":"abc.def","endpoint":"wss://wss.example.org"}`,
		"/api/v1.0/room/token/empty": `{"result":""}`,
	})

	tok, err := c.Token(context.Background(), "lobby")
	req.NoError(err)
	req.Equal(core.Token{Token: "abc.def", Endpoint: "wss://wss.example.org"}, tok)

	tok, err = c.Token(context.Background(), "empty")
	req.NoError(err)
	req.Empty(tok.Token)
}

func TestClient_Token_Http_Failure(t *testing.T) {
	req := require.New(t)
	c := newServer(t, map[string]string{})

	_, err := c.Token(context.Background(), "missing")

	req.ErrorContains(err, "status 404")
}

func TestClient_Profile(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1.0/user/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("username") {
		case "alice":
			_, _ = w.Write([]byte(`{"result":"success","biography":"hi","gender":"F","location":"Oslo","role":"user","age":31}`))
		default:
			_, _ = w.Write([]byte(`{"result":"failure"}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, time.Second)

	p, err := c.Profile(context.Background(), "alice")
	req.NoError(err)
	req.Equal(&domain.Profile{Biography: "hi", Gender: "F", Location: "Oslo", Role: "user", Age: "31"}, p)

	_, err = c.Profile(context.Background(), "nobody")
	req.ErrorIs(err, core.ErrNoProfile)

	// Authenticated needs a password and a known account
	ok, err := c.Authenticated(context.Background(), "alice", "")
	req.NoError(err)
	req.False(ok)
	ok, err = c.Authenticated(context.Background(), "alice", "secret")
	req.NoError(err)
	req.True(ok)
	ok, err = c.Authenticated(context.Background(), "nobody", "secret")
	req.NoError(err)
	req.False(ok)

	// the password value itself is not verified
	ok, err = c.Authenticated(context.Background(), "alice", "wrong")
	req.NoError(err)
	req.True(ok)
}
