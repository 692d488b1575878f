package app

import (
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

// handlePing answers the liveness probe the service sends every ~30s.
func (c *Client) handlePing(e *epoch) {
	if err := c.sendOn(e, protocol.Pong()); err != nil {
		c.logger.Warn().Err(err).Msg("pong")
	}
}

func (c *Client) handleClosed(e *epoch, ev protocol.Closed) {
	reason := protocol.ReasonForCode(ev.Code)
	if !c.teardown(e) {
		return
	}
	e.err = &ClosedError{Code: ev.Code, Reason: reason}
	c.logger.Warn().Int("code", ev.Code).Str("reason", reason.String()).Msg("closed by service")

	level := zerolog.ErrorLevel
	if reason == protocol.CloseGeneric {
		level = zerolog.InfoLevel
	}
	c.emit(level, core.KindSession, "%s", protocol.Describe(ev.Code))
}
