package app

import (
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
)

// Outbound actions for external callers. None of them changes local state; the
// effect shows up when the matching inbound event arrives.

func (c *Client) SendChat(text string) error {
	return c.Send(protocol.Chat(text))
}

func (c *Client) SendPrivate(to domain.Handle, text string) error {
	return c.Send(protocol.Private(to, text))
}

func (c *Client) SetNick(nick string) error {
	return c.Send(protocol.SetNick(nick))
}

func (c *Client) Kick(h domain.Handle) error {
	return c.Send(protocol.Kick(h))
}

func (c *Client) Ban(h domain.Handle) error {
	return c.Send(protocol.BanUser(h))
}

func (c *Client) Unban(banID int) error {
	return c.Send(protocol.UnbanUser(banID))
}

func (c *Client) RequestBanList() error {
	return c.Send(protocol.RequestBanList())
}

func (c *Client) RequestPlaylist() error {
	return c.Send(protocol.RequestPlaylist())
}

func (c *Client) PlaylistAdd(videoID string, duration float64, title, image string) error {
	return c.Send(protocol.PlaylistAdd(videoID, duration, title, image))
}

func (c *Client) PlaylistRemove(videoID string, duration float64, title, image string) error {
	return c.Send(protocol.PlaylistRemove(videoID, duration, title, image))
}

func (c *Client) PlaylistMode(random, repeat bool) error {
	return c.Send(protocol.PlaylistMode(random, repeat))
}

func (c *Client) Play(videoID string, duration, offset float64) error {
	return c.Send(protocol.Play(videoID, duration, offset))
}

func (c *Client) Pause(videoID string, duration, offset float64) error {
	return c.Send(protocol.Pause(videoID, duration, offset))
}

func (c *Client) Stop(videoID string, duration, offset float64) error {
	return c.Send(protocol.Stop(videoID, duration, offset))
}

func (c *Client) Seek(videoID string, duration, offset float64, paused bool) error {
	return c.Send(protocol.Seek(videoID, duration, offset, paused))
}

// RequestICE starts negotiation; the service answers with iceservers.
func (c *Client) RequestICE() error {
	return c.Send(protocol.GetICE())
}
