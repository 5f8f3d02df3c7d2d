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

	"kicklive/internal/config"
	"kicklive/internal/dispatch"
	"kicklive/internal/events"
	"kicklive/internal/fingerprint"
	"kicklive/internal/kick"
	"kicklive/internal/models"
	"kicklive/internal/realtime"
	"kicklive/internal/session"
	"kicklive/internal/storage"
	"kicklive/internal/transport"
	"kicklive/internal/web"
)

const defaultRealtimeURL = "wss://ws-us2.pusher.com/app/eb1d5f283081a78b932c?protocol=7&client=js&version=7.6.0&flash=false"

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("KICKLIVE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	// Credentials: the watcher daemon runs with pre-provisioned tokens.
	// Interactive browser login is a library concern (session.Manager).
	store := session.NewCredentialStore()
	if bearer, xsrf := os.Getenv("KICK_BEARER_TOKEN"), os.Getenv("KICK_XSRF_TOKEN"); bearer != "" && xsrf != "" {
		store.SetSession(bearer, xsrf)
		if exp, ok := store.BearerExpiry(); ok {
			logger.Info().Time("expires", exp).Msg("bearer token loaded")
		}
	} else {
		logger.Warn().Msg("no KICK_BEARER_TOKEN/KICK_XSRF_TOKEN set, REST calls will fail fast")
	}

	fp := fingerprint.New(cfg.Fingerprint.Primary, cfg.Fingerprint.Backups, time.Now().UnixNano())
	tr := transport.New(store, fp, &transport.DefaultSender{}, logger)
	api := kick.NewClient(tr)

	// Optional stores
	var redisStore *storage.RedisStore
	if cfg.Database.Redis.Enabled {
		redisStore, err = storage.NewRedisStore(cfg.Database.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, chat archive disabled")
		} else {
			defer redisStore.Close()
			logger.Info().Msg("redis connected")
		}
	}

	var mysqlStore *storage.MySQLStore
	if cfg.Database.MySQL.Enabled {
		mysqlStore, err = storage.NewMySQLStore(cfg.Database.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to mysql, durable history disabled")
		} else {
			defer mysqlStore.Close()
			logger.Info().Msg("mysql connected")
		}
	}

	// Pipeline: dispatcher, relay hub, handlers
	dispatcher := dispatch.New(logger)
	hub := web.NewEventHub(logger)
	go hub.Run()

	for _, cat := range []events.Category{
		events.CategoryChatMessage,
		events.CategoryMessageDeleted,
		events.CategoryStreamStarted,
		events.CategoryStreamStopped,
		events.CategoryStreamUpdated,
		events.CategoryFollowers,
		events.CategoryPinnedMessage,
		events.CategoryPoll,
		events.CategoryUnknown,
	} {
		dispatcher.Subscribe(cat, hub.Broadcast)
	}

	dispatcher.Subscribe(events.CategoryChatMessage, func(ev events.Event) {
		msg, ok := ev.Payload.(*models.ChatMessage)
		if !ok {
			return
		}
		logger.Info().
			Int64("chatroom", msg.ChatroomID).
			Str("sender", msg.Sender.Username).
			Str("content", msg.Content).
			Msg("chat")

		if redisStore != nil {
			go func() {
				if err := redisStore.StoreChatMessage(context.Background(), msg); err != nil {
					logger.Warn().Err(err).Msg("failed to archive chat message to redis")
				}
			}()
		}
		if mysqlStore != nil {
			go func() {
				if err := mysqlStore.SaveChatMessage(msg); err != nil {
					logger.Warn().Err(err).Msg("failed to persist chat message to mysql")
				}
			}()
		}
	})

	dispatcher.Subscribe(events.CategoryUnknown, func(ev events.Event) {
		if u, ok := ev.Payload.(*events.Unknown); ok {
			logger.Debug().Str("event", u.Name).Str("channel", u.Channel).Msg("unmodeled event")
		}
	})

	// Realtime connection
	rtURL := cfg.Realtime.URL
	if rtURL == "" {
		rtURL = defaultRealtimeURL
	}
	dialer := &realtime.WSDialer{Header: http.Header{"User-Agent": {fp.UserAgent()}}}
	mgr := realtime.NewManager(realtime.Config{
		URL:            rtURL,
		PingInterval:   cfg.Realtime.PingInterval,
		MaxMissedPongs: cfg.Realtime.MaxMissedPongs,
		BackoffInitial: cfg.Realtime.BackoffInitial,
		BackoffMax:     cfg.Realtime.BackoffMax,
	}, dialer, dispatcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve configured channel slugs to their subscription channels.
	for _, slug := range cfg.Kick.Channels {
		ch, err := api.Channel(ctx, slug)
		if err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) {
				logger.Warn().Str("channel", slug).Msg("skipping channel resolution, not authenticated")
			} else {
				logger.Warn().Err(err).Str("channel", slug).Msg("failed to resolve channel")
			}
			continue
		}
		mgr.Subscribe(
			fmt.Sprintf("chatrooms.%d.v2", ch.Chatroom.ID),
			fmt.Sprintf("channel.%d", ch.ID),
		)
		logger.Info().Str("channel", slug).Int64("chatroom", ch.Chatroom.ID).Msg("watching channel")
	}

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start realtime manager")
	}
	defer mgr.Close()

	// Ops HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      web.NewRouter(mgr, hub, redisStore, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("ops server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("ops server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown error")
	}

	mgr.Close()
	logger.Info().Msg("stopped")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
