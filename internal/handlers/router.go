package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	vfbbot "github.com/akozhevin/video-fetch-bot/internal/bot"
	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/lang"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
	"github.com/akozhevin/video-fetch-bot/internal/orchestrator"
	"github.com/akozhevin/video-fetch-bot/internal/pkg/metrics"
)

const seenUpdatesWindow = 256

// Handler routes inbound Telegram updates into static replies or the
// download pipeline. It owns no business logic.
type Handler struct {
	bot          vfbbot.Service
	config       *vfbconfig.Config
	orchestrator *orchestrator.Orchestrator
	seen         *seenUpdates
}

func NewHandler(botInstance vfbbot.Service, config *vfbconfig.Config, orch *orchestrator.Orchestrator) *Handler {
	return &Handler{
		bot:          botInstance,
		config:       config,
		orchestrator: orch,
		seen:         newSeenUpdates(seenUpdatesWindow),
	}
}

// Route dispatches one update. Long-running work (the download itself) is
// spawned onto its own goroutine so the update loop is never blocked.
func (h *Handler) Route(ctx context.Context, update *tgbotapi.Update) {
	if h.seen.Seen(update.UpdateID) {
		logutils.Log.WithField("update_id", update.UpdateID).Info("Duplicate update delivery, ignoring")
		metrics.UpdatesTotal.WithLabelValues("duplicate").Inc()
		return
	}

	if update.CallbackQuery != nil {
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		h.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		metrics.UpdatesTotal.WithLabelValues("other").Inc()
		return
	}

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		metrics.UpdatesTotal.WithLabelValues("command").Inc()
		h.handleCommand(chatID, strings.ToLower(update.Message.Command()))
		return
	}

	metrics.UpdatesTotal.WithLabelValues("message").Inc()
	h.handleText(ctx, chatID, update.Message.Text)
}

func (h *Handler) handleText(ctx context.Context, chatID int64, text string) {
	tag := classifier.Classify(text)
	switch {
	case tag == classifier.NotAURL:
		h.bot.SendMessage(chatID, lang.GetMessage(lang.NotAURLMsgID), nil)
	case !tag.Supported():
		logutils.Log.WithField("text", text).Info("Unsupported link submitted")
		h.bot.SendMessage(chatID, lang.GetMessage(lang.UnsupportedLinkMsgID), nil)
	default:
		h.handleDownloadLink(ctx, chatID, strings.TrimSpace(text), tag)
	}
}
