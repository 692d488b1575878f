// Package tinychat talks to the HTTP side of the room service: protocol
// version discovery, join tokens and account profiles.
package tinychat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://tinychat.com"
	BrowserAgent   = "Mozilla/5.0 (Windows NT 6.1; WOW64; rv:52.0) Gecko/20100101 Firefox/52.0"

	manifestPrefix = `<link rel="manifest" href="/webrtc/`
	manifestSuffix = `/manifest.json">`

	maxBody = 4 << 20
)

var ErrVersionNotFound = errors.New("version not found in room page")

// Client implements core.VersionResolver, core.TokenResolver, core.ProfileLookup
// and core.Authenticator over HTTP.
type Client struct {
	base   string
	http   *http.Client
	logger zerolog.Logger
}

func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: log.With().Str("module", "adapters.tinychat").Logger(),
	}
}

// Version scrapes the protocol version from the room page.
func (c *Client) Version(ctx context.Context, room string) (string, error) {
	body, err := c.get(ctx, "/room/"+url.PathEscape(room))
	if err != nil {
		return "", err
	}
	page := string(body)
	_, rest, ok := strings.Cut(page, manifestPrefix)
	if !ok {
		return "", ErrVersionNotFound
	}
	version, _, ok := strings.Cut(rest, manifestSuffix)
	if !ok || version == "" {
		return "", ErrVersionNotFound
	}
	c.logger.Debug().Str("room", room).Str("version", version).Msg("version")
	return version, nil
}

type tokenResponse struct {
	Result   string `json:"result"`
	Endpoint string `json:"endpoint"`
}

func (c *Client) Token(ctx context.Context, room string) (core.Token, error) {
	body, err := c.get(ctx, "/api/v1.0/room/token/"+url.PathEscape(room))
	if err != nil {
		return core.Token{}, err
	}
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.Token{}, fmt.Errorf("decode token: %w", err)
	}
	c.logger.Debug().Str("room", room).Str("endpoint", resp.Endpoint).Bool("token", resp.Result != "").Msg("token")
	return core.Token{Token: resp.Result, Endpoint: resp.Endpoint}, nil
}

type profileResponse struct {
	Result    string `json:"result"`
	Biography string `json:"biography"`
	Gender    string `json:"gender"`
	Location  string `json:"location"`
	Role      string `json:"role"`
	Age       any    `json:"age"`
}

// Profile returns core.ErrNoProfile when the service does not know account.
func (c *Client) Profile(ctx context.Context, account string) (*domain.Profile, error) {
	body, err := c.get(ctx, "/api/v1.0/user/profile?username="+url.QueryEscape(account))
	if err != nil {
		return nil, err
	}
	var resp profileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if resp.Result != "success" {
		return nil, core.ErrNoProfile
	}
	p := &domain.Profile{
		Biography: resp.Biography,
		Gender:    resp.Gender,
		Location:  resp.Location,
		Role:      resp.Role,
	}
	if resp.Age != nil {
		p.Age = fmt.Sprint(resp.Age)
	}
	return p, nil
}

// Authenticated is a presence check, not a login: it reports true when a password
// is configured and the service has a profile for account. The password value is
// never sent or verified; callers that hold a real session should inject their own
// core.Authenticator.
func (c *Client) Authenticated(ctx context.Context, account, password string) (bool, error) {
	if account == "" || password == "" {
		return false, nil
	}
	_, err := c.Profile(ctx, account)
	if errors.Is(err, core.ErrNoProfile) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", BrowserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("unexpected status")
		return nil, fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}
