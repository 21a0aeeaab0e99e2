package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"osu-rank-bot/config"
	"osu-rank-bot/db"
	"osu-rank-bot/handlers"
	"osu-rank-bot/internal"
	"osu-rank-bot/osu"
	"osu-rank-bot/updater"
	"osu-rank-bot/verify"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

const sweepPeriod = time.Minute

func main() {
	path := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		panic(err)
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.Sentry.DSN,
		Environment:   cfg.Sentry.Environment,
		EnableTracing: false,
		EnableLogs:    true,
	})
	if err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	logger := slog.New(slogmulti.Fanout(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelInfo,
		}),
		sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		}.NewSentryHandler(context.Background())))
	slog.SetDefault(logger)

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))

	pool, err := pgxpool.New(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	database := db.NewDB(pool)
	if err := database.CreateSchema(context.Background()); err != nil {
		panic(err)
	}

	osuClient := osu.New(cfg.Osu)

	gatewayOpts := []gateway.ConfigOpt{
		gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers),
	}
	if cfg.Bot.Presence != "" {
		gatewayOpts = append(gatewayOpts, gateway.WithPresenceOpts(gateway.WithWatchingActivity(cfg.Bot.Presence)))
	}

	client, err := disgo.New(cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gatewayOpts...),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagRoles)))
	if err != nil {
		panic(err)
	}
	defer client.Close(context.TODO())

	job := updater.New(database, osuClient, client.Rest, cfg.Updater.MemberDelay)

	b := &internal.Bot{
		DB:        database,
		Osu:       osuClient,
		Updater:   job,
		StartedAt: time.Now(),
	}
	c := &internal.Config{
		OwnerID:       cfg.Bot.OwnerID,
		DefaultPrefix: cfg.Bot.Prefix,
	}

	client.AddEventListeners(handlers.NewHandler(b, c), &events.ListenerAdapter{
		OnGuildJoin: func(ev *events.GuildJoin) {
			handlers.OnGuildJoin(b, c, ev)
		},
		OnGuildReady: func(ev *events.GuildReady) {
			handlers.OnGuildReady(b, c, ev)
		},
		OnGuildLeave: func(ev *events.GuildLeave) {
			handlers.OnGuildLeave(b, ev)
		},
		OnGuildMemberJoin: func(ev *events.GuildMemberJoin) {
			handlers.OnMemberJoin(b, ev)
		},
		OnGuildMemberLeave: func(ev *events.GuildMemberLeave) {
			handlers.OnMemberLeave(b, ev)
		},
	})

	if _, err := client.Rest.SetGlobalCommands(client.ApplicationID, handlers.Commands); err != nil {
		panic(err)
	}

	if err := client.OpenGateway(context.TODO()); err != nil {
		panic(err)
	}

	srv := verify.NewServer(cfg.Server.Addr, database, osuClient)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("verify: server stopped", tint.Err(err))
		}
	}()

	job.Start(context.Background())

	ticker := time.NewTicker(sweepPeriod)
	defer ticker.Stop()
	go func() {
		for t := range ticker.C {
			count, err := database.DeleteExpiredVerifications(context.Background(), t)
			if err != nil {
				slog.Error("verify: error while sweeping expired verifications", tint.Err(err))
				continue
			}
			if count != 0 {
				slog.Info("verify: swept expired verifications", slog.Int64("count", count))
			}
		}
	}()

	slog.Info("osu rank bot is now running.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	<-s

	job.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("verify: error while shutting down the server", tint.Err(err))
	}
}
