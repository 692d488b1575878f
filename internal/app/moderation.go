package app

import (
	"strings"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/protocol"
	"github.com/rs/zerolog"
)

func (c *Client) refreshBanList(e *epoch) {
	if err := c.sendOn(e, protocol.RequestBanList()); err != nil {
		c.logger.Warn().Err(err).Msg("banlist request")
	}
}

func (c *Client) handleBan(e *epoch, ev protocol.Ban) {
	if !ev.Success {
		c.logger.Warn().Str("reason", ev.Reason).Msg("ban failed")
		if ev.Reason != "" {
			c.emit(zerolog.ErrorLevel, core.KindModeration, "Ban failed: %s", ev.Reason)
		}
		return
	}
	b := ev.Ban()
	e.roster.AddBan(b)
	if b.Account != "" {
		c.emit(zerolog.WarnLevel, core.KindModeration, "%s:%s was banned from the room.", b.Nick, b.Account)
		return
	}
	c.emit(zerolog.WarnLevel, core.KindModeration, "%s was banned from the room.", b.Nick)
}

func (c *Client) handleUnban(e *epoch, ev protocol.Unban) {
	if ev.Failed() {
		c.emit(zerolog.ErrorLevel, core.KindModeration, "Unban failed: %s", ev.Reason)
		return
	}
	b, ok := e.roster.RemoveBan(ev.ID)
	if !ok {
		c.logger.Debug().Int("id", ev.ID).Msg("unban for unknown ban id")
		return
	}
	c.emit(zerolog.InfoLevel, core.KindModeration, "%s was unbanned.", b.Nick)
}

func (c *Client) handleBanList(e *epoch, ev protocol.BanList) {
	if !ev.Success {
		c.emit(zerolog.ErrorLevel, core.KindModeration, "%s", ev.Reason)
		return
	}
	bans := make([]domain.Ban, 0, len(ev.Items))
	for _, item := range ev.Items {
		bans = append(bans, item.Ban())
	}
	e.roster.ReplaceBans(bans)
	if len(bans) == 0 {
		c.emit(zerolog.InfoLevel, core.KindModeration, "The banlist is empty.")
		return
	}
	c.logger.Info().Int("count", len(bans)).Msg("banlist synced")
}

func (c *Client) handleSysMsg(e *epoch, ev protocol.SysMsg) {
	c.emit(zerolog.InfoLevel, core.KindSystem, "%s", ev.Text)
	if _, mod := c.self(e); mod && strings.Contains(ev.Text, "banned") {
		c.refreshBanList(e)
	}
}
