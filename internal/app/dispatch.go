package app

import (
	"time"

	"github.com/dkeye/rtcroom/internal/adapters/ws"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

// receive is the only goroutine that reads e.conn and mutates e.roster structurally.
func (c *Client) receive(e *epoch) {
	logger := c.logger.With().Str("trace", e.session.TraceID).Logger()
	defer func() {
		logger.Info().Err(e.err).Msg("receive loop closing")
		close(e.done)
	}()

	for {
		if c.opts.PingTimeout > 0 {
			_ = e.conn.SetReadDeadline(time.Now().Add(c.opts.PingTimeout))
		}
		_, data, err := e.conn.ReadMessage()
		if err != nil {
			if !c.teardown(e) {
				// torn down locally; the read error is expected
				return
			}
			e.err = err
			if ws.IsTimeout(err) {
				logger.Error().Err(err).Dur("ping_timeout", c.opts.PingTimeout).Msg("no frame within ping timeout")
				c.emit(zerolog.ErrorLevel, core.KindSession, "No ping from the server for %s, connection dropped.", c.opts.PingTimeout)
				return
			}
			if ws.IsClosed(err) {
				logger.Info().Err(err).Msg("connection closed by peer")
				c.emit(zerolog.InfoLevel, core.KindSession, "Connection closed by the server.")
				return
			}
			logger.Error().Err(err).Msg("read error")
			c.emit(zerolog.ErrorLevel, core.KindSession, "Connection lost: %v", err)
			return
		}
		logger.Trace().Bytes("data", data).Msg("frame")

		if !c.dispatch(e, data) {
			return
		}
		if !c.isCurrent(e) {
			return
		}
	}
}

// dispatch routes one frame to exactly one handler. It returns false when the
// session has ended.
func (c *Client) dispatch(e *epoch, data []byte) bool {
	if !c.isCurrent(e) {
		return false
	}
	ev, err := protocol.Decode(data)
	if err != nil {
		c.logger.Error().Err(err).Bytes("data", data).Msg("bad frame")
		c.emit(zerolog.ErrorLevel, core.KindInfo, "Bad frame: %v", err)
		return true
	}
	c.logger.Debug().Str("tc", ev.Tag()).Msg("event")

	switch ev := ev.(type) {
	case protocol.Ping:
		c.handlePing(e)
	case protocol.Closed:
		c.handleClosed(e, ev)
		return false
	case protocol.Joined:
		c.handleJoined(e, ev)
		c.handleRoomInfo(ev.Room)
	case protocol.UserList:
		c.handleUserList(e, ev)
	case protocol.Join:
		c.handleJoin(e, ev)
	case protocol.Nick:
		c.handleNick(e, ev)
	case protocol.Quit:
		c.handleQuit(e, ev)
	case protocol.Ban:
		c.handleBan(e, ev)
	case protocol.Unban:
		c.handleUnban(e, ev)
	case protocol.BanList:
		c.handleBanList(e, ev)
	case protocol.Message:
		c.handleMessage(e, ev)
	case protocol.Publish:
		c.handlePublish(e, ev)
	case protocol.SysMsg:
		c.handleSysMsg(e, ev)
	case protocol.Playlist:
		c.handlePlaylist(ev)
	case protocol.Playback:
		c.handlePlayback(e, ev)
	case protocol.ICEServers:
		c.handleICEServers(e, ev)
	default:
		c.logger.Warn().Str("tc", ev.Tag()).Bytes("data", data).Msg("unknown event")
		c.emit(zerolog.WarnLevel, core.KindInfo, "Unknown command: %s", ev.Tag())
	}
	return true
}
