package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozhevin/video-fetch-bot/internal/api"
	vfbbot "github.com/akozhevin/video-fetch-bot/internal/bot"
	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/extractor/factory"
	"github.com/akozhevin/video-fetch-bot/internal/handlers"
	"github.com/akozhevin/video-fetch-bot/internal/keepalive"
	"github.com/akozhevin/video-fetch-bot/internal/lang"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
	"github.com/akozhevin/video-fetch-bot/internal/orchestrator"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := vfbconfig.NewConfig()
	if err != nil {
		logutils.Log.WithError(err).Fatal("Failed to initialize configuration")
	}

	logutils.InitLogger(config.LogLevel)
	logutils.Log.WithFields(map[string]any{
		"version":    Version,
		"build_time": BuildTime,
	}).Info("Starting video fetch bot")

	lang.SetupLang(config)

	botInstance, err := vfbbot.InitBot(config)
	if err != nil {
		logutils.Log.WithError(err).Fatal("Bot initialization failed")
	}

	orch := orchestrator.New(config, func(tag classifier.PlatformTag) (extractor.Extractor, error) {
		return factory.ExtractorFor(config, tag)
	})
	handler := handlers.NewHandler(botInstance, config, orch)

	updates, webhookHandler, err := botInstance.StartUpdates(config)
	if err != nil {
		logutils.Log.WithError(err).Fatal("Failed to start receiving updates")
	}

	webhookPath := ""
	if webhookHandler != nil {
		webhookPath = botInstance.WebhookPath()
	}
	server := api.NewServer(config.ListenAddr, webhookPath, webhookHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if srvErr := server.Start(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			logutils.Log.WithError(srvErr).Fatal("Liveness server failed")
		}
	}()

	if config.PublicURL != "" {
		go keepalive.NewPinger(config.PublicURL).Run(ctx)
	}

	go processUpdates(ctx, handler, updates)

	logutils.Log.Info("Video fetch bot started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logutils.Log.Info("Received shutdown signal, starting graceful shutdown...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logutils.Log.WithError(err).Warn("Liveness server shutdown failed")
	}

	logutils.Log.Info("Video fetch bot shutdown complete")
}

func processUpdates(ctx context.Context, handler *handlers.Handler, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case update := <-updates:
			handler.Route(ctx, &update)
		case <-ctx.Done():
			logutils.Log.Info("Stopping update processing")
			return
		}
	}
}
