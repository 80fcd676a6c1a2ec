package bot

import (
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

// Service is the delivery surface the handlers depend on. testutils.MockBot
// implements it for tests.
type Service interface {
	SendMessage(chatID int64, text string, keyboard any)
	SendMessageReturningID(chatID int64, text string, keyboard any) (int, error)
	EditMessageText(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error
	SendVideoFile(chatID int64, filePath, caption string) error
	AnswerCallbackQuery(callbackID string)
}

type Bot struct {
	Api *tgbotapi.BotAPI
}

var _ Service = (*Bot)(nil)

func InitBot(config *vfbconfig.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	logutils.Log.Infof("Authorized on account %s", api.Self.UserName)
	return &Bot{Api: api}, nil
}

// StartUpdates returns the inbound update channel. With PUBLIC_URL set the
// bot registers a webhook and the returned handler must be mounted on the
// HTTP server at WebhookPath; otherwise it long-polls and the handler is nil.
func (b *Bot) StartUpdates(config *vfbconfig.Config) (tgbotapi.UpdatesChannel, http.HandlerFunc, error) {
	if config.PublicURL == "" {
		if _, err := b.Api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			logutils.Log.WithError(err).Warn("Failed to delete stale webhook, polling may fight it")
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		logutils.Log.Info("Receiving updates via long polling")
		return b.Api.GetUpdatesChan(u), nil, nil
	}

	wh, err := tgbotapi.NewWebhook(config.PublicURL + b.WebhookPath())
	if err != nil {
		return nil, nil, fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.Api.Request(wh); err != nil {
		return nil, nil, fmt.Errorf("register webhook: %w", err)
	}
	logutils.Log.WithField("url", config.PublicURL+b.WebhookPath()).Info("Receiving updates via webhook")

	updates := make(chan tgbotapi.Update, 128)
	handler := func(w http.ResponseWriter, r *http.Request) {
		update, err := b.Api.HandleUpdate(r)
		if err != nil {
			logutils.Log.WithError(err).Warn("Failed to parse webhook update")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		updates <- *update
		w.WriteHeader(http.StatusOK)
	}
	return updates, handler, nil
}

// WebhookPath embeds the token so only Telegram can guess the endpoint.
func (b *Bot) WebhookPath() string {
	return "/webhook/" + b.Api.Token
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard any) {
	if _, err := b.sendWithKeyboard(chatID, text, keyboard); err != nil {
		logutils.Log.WithError(err).WithField("chat_id", chatID).Error("Message not sent")
	}
}

func (b *Bot) SendMessageReturningID(chatID int64, text string, keyboard any) (int, error) {
	sent, err := b.sendWithKeyboard(chatID, text, keyboard)
	if err != nil {
		logutils.Log.WithError(err).WithField("chat_id", chatID).Error("Message not sent")
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard any) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	return b.Api.Send(msg)
}

func (b *Bot) EditMessageText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.Api.Send(edit); err != nil {
		logutils.Log.WithError(err).WithField("chat_id", chatID).Warn("Failed to edit message")
		return err
	}
	return nil
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) error {
	if _, err := b.Api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logutils.Log.WithError(err).WithField("chat_id", chatID).Warn("Failed to delete message")
		return err
	}
	return nil
}

// SendVideoFile uploads a local video file with a caption. The caption is
// sent without a parse mode so arbitrary titles cannot break formatting.
func (b *Bot) SendVideoFile(chatID int64, filePath, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(filePath))
	video.Caption = caption
	video.SupportsStreaming = true
	if _, err := b.Api.Send(video); err != nil {
		return fmt.Errorf("send video: %w", err)
	}
	return nil
}

func (b *Bot) AnswerCallbackQuery(callbackID string) {
	callback := tgbotapi.NewCallback(callbackID, "")
	if _, err := b.Api.Request(callback); err != nil {
		logutils.Log.WithError(err).Warn("Failed to answer callback query")
	}
}
