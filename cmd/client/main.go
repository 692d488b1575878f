package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/rtcroom/internal/adapters/http"
	"github.com/dkeye/rtcroom/internal/adapters/tinychat"
	"github.com/dkeye/rtcroom/internal/adapters/ws"
	"github.com/dkeye/rtcroom/internal/app"
	"github.com/dkeye/rtcroom/internal/cache"
	"github.com/dkeye/rtcroom/internal/config"
	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/logging"
	"github.com/dkeye/rtcroom/internal/sink"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Room: cfg.Room.Name})

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("client stopped")
		os.Exit(1)
	}
	log.Info().Msg("client exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	svc := cfg.Service
	api := tinychat.New(svc.APIBase, svc.HTTPTimeout)

	var profiles core.ProfileLookup = api
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("profile cache disabled")
		} else {
			defer store.Close()
			profiles = cache.NewProfileCache(api, store, cfg.Redis.Prefix, cfg.Redis.TTL)
		}
	}

	sinks := sink.Multi{sink.NewConsole(os.Stdout, sink.ConsoleOptions{
		Use24Hour: cfg.Console.Use24Hour,
		Colors:    cfg.Console.Colors,
		Debug:     cfg.Console.Debug,
	})}
	if cfg.ChatLog.Enabled {
		chatLog := sink.NewChatLog(cfg.ChatLog.Dir, cfg.Room.Name, cfg.Console.Use24Hour)
		defer chatLog.Close()
		sinks = append(sinks, chatLog)
	}

	client := app.New(app.Options{
		Room:            cfg.Room.Name,
		Nick:            cfg.Room.Nick,
		Account:         cfg.Room.Account,
		Password:        cfg.Room.Password,
		FallbackVersion: svc.FallbackVersion,
		UserAgentPrefix: svc.UserAgentPrefix,
		Endpoint:        svc.Endpoint,
		PingTimeout:     svc.PingTimeout,
		WriteTimeout:    svc.WriteTimeout,
		Throttle:        svc.Throttle,
		ProfileTimeout:  svc.ProfileTimeout,
	}, app.Deps{
		Dialer: ws.Dialer{
			Origin:           svc.Origin,
			UserAgent:        tinychat.BrowserAgent,
			HandshakeTimeout: svc.HandshakeTimeout,
			ReadLimit:        svc.ReadLimit,
		},
		Versions: api,
		Tokens:   api,
		Profiles: profiles,
		Auth:     api,
		Sink:     sinks,
	})

	if cfg.Status.Enabled {
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Status.Port),
			Handler: router.SetupRouter(cfg.Status.Mode, client),
		}
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("status server started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("status server error")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("status server forced to shutdown")
			}
		}()
	}

	if err := client.Connect(ctx); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- client.Wait() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		client.Disconnect()
		return <-done
	case err := <-done:
		return err
	}
}
