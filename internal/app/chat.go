package app

import (
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

// handleMessage passes msg and pvtmsg through the per-sender throttle.
func (c *Client) handleMessage(e *epoch, ev protocol.Message) {
	if self, _ := c.self(e); self == ev.Handle {
		return
	}
	p, deliver, ok := c.throttle.Allow(e.roster, ev.Handle)
	if !ok {
		c.logger.Warn().Int("handle", int(ev.Handle)).Msg("message from unknown handle")
		return
	}
	if !deliver {
		c.logger.Debug().Int("handle", int(ev.Handle)).Bool("private", ev.Private).Msg("throttled")
		return
	}
	c.deps.OnMessage(p, ev.Text, ev.Private)
}

func (c *Client) printMessage(from domain.Participant, text string, private bool) {
	if private {
		c.emit(zerolog.InfoLevel, core.KindPrivate, "Private message from %s: %s", from.Nick, text)
		return
	}
	c.emit(zerolog.InfoLevel, core.KindChat, "%s: %s", from.Nick, text)
}
