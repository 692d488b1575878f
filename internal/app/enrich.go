package app

import (
	"context"

	"github.com/dkeye/rtcroom/internal/domain"
)

// enrich fetches the profile of account off the dispatch goroutine. The result
// is dropped when the participant has left or the handle was recycled meanwhile.
func (c *Client) enrich(e *epoch, h domain.Handle, account string) {
	if c.deps.Profiles == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.ProfileTimeout)
		defer cancel()

		v, err, shared := c.profiles.Do(account, func() (any, error) {
			return c.deps.Profiles.Profile(ctx, account)
		})
		if err != nil {
			c.logger.Debug().Err(err).Str("account", account).Msg("profile lookup failed")
			return
		}
		prof, _ := v.(*domain.Profile)
		if !e.roster.ApplyProfile(h, account, prof) {
			c.logger.Debug().Str("account", account).Int("handle", int(h)).Msg("profile dropped, participant gone")
			return
		}
		c.logger.Debug().Str("account", account).Bool("shared", shared).Msg("profile applied")
	}()
}
