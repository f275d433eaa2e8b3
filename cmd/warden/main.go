// Package main is the entry point for the Warden moderation bot. It wires
// configuration, storage, the moderation pipeline and the gateway session
// together and runs until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/config"
	"github.com/wardenbot/warden/internal/database"
	"github.com/wardenbot/warden/internal/guilds"
	httpserver "github.com/wardenbot/warden/internal/http"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/platform"
	"github.com/wardenbot/warden/internal/settings"
	"github.com/wardenbot/warden/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		// Sync errors on stdout/stderr are expected for terminals and pipes
		_ = log.Sync()
	}()

	log.Info("starting warden",
		zap.String("environment", cfg.Server.Env),
		zap.String("health_port", cfg.Server.HealthPort),
	)

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		log.Fatal("failed to create gateway session", zap.Error(err))
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildModeration |
		discordgo.IntentGuildScheduledEvents

	discord := platform.NewDiscord(session, log)
	guildData := guilds.NewDataService(db, log)
	auditLogger := audit.NewLogger(discord, log)
	pipeline := moderation.NewPipeline(discord, discord, guildData, auditLogger, log)

	handler := bot.New(pipeline, guildData, db, settings.DefaultRegistry(), log)
	handler.Register(session)

	if err := session.Open(); err != nil {
		log.Fatal("failed to open gateway session", zap.Error(err))
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Error("failed to close gateway session", zap.Error(err))
		}
	}()

	if err := handler.RegisterCommands(session); err != nil {
		log.Fatal("failed to register commands", zap.Error(err))
	}

	healthServer := httpserver.NewServer(db, cfg.Server.HealthPort, log)
	healthErrChan := make(chan error, 1)
	go func() {
		if err := healthServer.Serve(); err != nil {
			healthErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-healthErrChan:
		log.Fatal("health server error", zap.Error(err))
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down health server", zap.Error(err))
	}

	// Let queued audit records drain before the session closes
	auditLogger.Flush()
}
