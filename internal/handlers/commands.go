package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozhevin/video-fetch-bot/internal/lang"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

const (
	callbackDownloadInfo = "download_info"
	callbackHelp         = "help"
)

func (h *Handler) handleCommand(chatID int64, command string) {
	switch command {
	case "start":
		h.bot.SendMessage(chatID, lang.GetMessage(lang.StartMsgID), startKeyboard())
	case "help":
		h.bot.SendMessage(chatID, lang.GetMessage(lang.HelpMsgID), nil)
	default:
		logutils.Log.Warnf("Unknown command: %s", command)
		h.bot.SendMessage(chatID, lang.GetMessage(lang.UnknownCommandMsgID), nil)
	}
}

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.DownloadButtonMsgID), callbackDownloadInfo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.HelpButtonMsgID), callbackHelp),
		),
	)
}

func (h *Handler) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	h.bot.AnswerCallbackQuery(query.ID)

	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	switch query.Data {
	case callbackDownloadInfo:
		h.bot.SendMessage(chatID, lang.GetMessage(lang.SendLinkPromptMsgID), nil)
	case callbackHelp:
		h.bot.SendMessage(chatID, lang.GetMessage(lang.HelpMsgID), nil)
	default:
		logutils.Log.Warnf("Unknown callback data: %s", query.Data)
	}
}
