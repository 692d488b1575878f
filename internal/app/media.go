package app

import (
	"math"
	"strconv"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

func (c *Client) handlePlaylist(ev protocol.Playlist) {
	if !ev.Success {
		c.emit(zerolog.ErrorLevel, core.KindMedia, "%s", ev.Reason)
		return
	}
	c.emit(zerolog.InfoLevel, core.KindMedia, "Playlist has %d item(s).", len(ev.Items))
	for i, item := range ev.Items {
		c.emit(zerolog.InfoLevel, core.KindMedia, "%d. %s (%s) %ds", i+1, item.Title, item.ID, seconds(item.Duration))
	}
}

// handlePlayback only reports; the roster is not touched. Our own play and pause
// echoes are ignored.
func (c *Client) handlePlayback(e *epoch, ev protocol.Playback) {
	if ev.Action == protocol.ActionStop {
		c.emit(zerolog.InfoLevel, core.KindMedia, "The youtube (%s) was stopped.", ev.Item.ID)
		return
	}
	if self, _ := c.self(e); self == ev.Handle {
		return
	}
	who := c.nickOf(e, ev.Handle)
	switch {
	case ev.Action == protocol.ActionPause:
		c.emit(zerolog.InfoLevel, core.KindMedia, "%s paused the video at %d", who, seconds(ev.Item.Offset))
	case ev.IsSeek():
		c.emit(zerolog.InfoLevel, core.KindMedia, "%s searched the youtube video to: %d", who, seconds(ev.Item.Offset))
	default:
		c.emit(zerolog.InfoLevel, core.KindMedia, "%s started youtube video (%s)", who, ev.Item.ID)
	}
}

func (c *Client) handleICEServers(e *epoch, ev protocol.ICEServers) {
	c.mu.Lock()
	e.session.ICEServers = ev.Servers
	c.mu.Unlock()
	c.logger.Info().Int("count", len(ev.Servers)).Msg("ice servers")
	c.emit(zerolog.DebugLevel, core.KindMedia, "Received %d ICE server(s).", len(ev.Servers))
}

func (c *Client) nickOf(e *epoch, h domain.Handle) string {
	if p, ok := e.roster.Get(h); ok {
		return p.Nick
	}
	return strconv.Itoa(int(h))
}

func seconds(f float64) int {
	return int(math.Round(f))
}
