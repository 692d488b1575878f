package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkeye/rtcroom/internal/app"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/dkeye/rtcroom/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Room is the part of app.Client the status router reads.
type Room interface {
	Snapshot() app.Session
	Roster() *core.Roster
	Uptime() time.Duration
	RequestBanList() error
}

type SessionResponse struct {
	app.Session
	UptimeSeconds int64 `json:"uptime_seconds"`
}

type ParticipantResponse struct {
	Handle       domain.Handle   `json:"handle"`
	Nick         string          `json:"nick"`
	Account      string          `json:"account,omitempty"`
	Role         string          `json:"role"`
	Broadcasting bool            `json:"broadcasting"`
	LastMessage  *time.Time      `json:"last_message,omitempty"`
	Profile      *domain.Profile `json:"profile,omitempty"`
}

type RosterResponse struct {
	Self         *ParticipantResponse  `json:"self,omitempty"`
	Participants []ParticipantResponse `json:"participants"`
}

type BanResponse struct {
	ID      int           `json:"id"`
	Nick    string        `json:"nick"`
	Account string        `json:"account,omitempty"`
	Handle  domain.Handle `json:"handle"`
}

func SetupRouter(mode string, room Room) *gin.Engine {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(log.Logger))

	api := r.Group("/api")
	api.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, SessionResponse{
			Session:       room.Snapshot(),
			UptimeSeconds: int64(room.Uptime() / time.Second),
		})
	})
	api.GET("/roster", func(c *gin.Context) {
		roster := room.Roster()
		var list []domain.Participant
		switch c.Query("role") {
		case "":
			list = roster.All()
		case "broadcasting":
			list = roster.Broadcasting()
		case domain.RoleOwner.String():
			list = roster.Owners()
		case domain.RoleModerator.String():
			list = roster.Moderators()
		case domain.RoleSignedIn.String():
			list = roster.SignedIn()
		case domain.RoleLurker.String():
			list = roster.Lurkers()
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}

		resp := RosterResponse{Participants: make([]ParticipantResponse, 0, len(list))}
		if self, ok := roster.Self(); ok {
			p := participantResponse(self)
			resp.Self = &p
		}
		for _, p := range list {
			resp.Participants = append(resp.Participants, participantResponse(p))
		}
		c.JSON(http.StatusOK, resp)
	})
	api.GET("/bans", func(c *gin.Context) {
		bans := room.Roster().Bans()
		resp := make([]BanResponse, 0, len(bans))
		for _, b := range bans {
			resp = append(resp, BanResponse{ID: b.ID, Nick: b.Nick, Account: b.Account, Handle: b.Handle})
		}
		c.JSON(http.StatusOK, resp)
	})
	// The ban list itself arrives later on the receive loop.
	api.POST("/banlist", func(c *gin.Context) {
		if err := room.RequestBanList(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, app.ErrNotConnected) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "requested"})
	})

	log.Info().Str("module", "adapters.http").Str("mode", gin.Mode()).Msg("router setup")
	return r
}

func participantResponse(p domain.Participant) ParticipantResponse {
	resp := ParticipantResponse{
		Handle:       p.Handle,
		Nick:         p.Nick,
		Account:      p.Account,
		Role:         p.Role().String(),
		Broadcasting: p.Broadcasting,
		Profile:      p.Profile,
	}
	if !p.LastMessage.IsZero() {
		at := p.LastMessage
		resp.LastMessage = &at
	}
	return resp
}
