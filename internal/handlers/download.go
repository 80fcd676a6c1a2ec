package handlers

import (
	"context"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/lang"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
	"github.com/akozhevin/video-fetch-bot/internal/orchestrator"
	"github.com/akozhevin/video-fetch-bot/internal/utils"
)

// handleDownloadLink accepts a supported link, acknowledges it with a status
// message, and runs the download pipeline on its own goroutine.
func (h *Handler) handleDownloadLink(ctx context.Context, chatID int64, url string, tag classifier.PlatformTag) {
	logutils.Log.WithFields(map[string]interface{}{
		"link":     url,
		"platform": tag.String(),
		"chat_id":  chatID,
	}).Info("Starting download for a valid link")

	statusID, err := h.bot.SendMessageReturningID(chatID, lang.GetMessage(lang.DownloadingMsgID), nil)
	if err != nil {
		logutils.Log.WithError(err).Warn("Failed to send status message, continuing without it")
	}

	req := orchestrator.NewRequest(url, chatID, tag)

	go func() {
		outcome := h.orchestrator.Handle(ctx, req, func(result *extractor.Result) error {
			caption := lang.GetMessage(lang.VideoCaptionMsgID, utils.HumanSize(result.Size))
			return h.bot.SendVideoFile(chatID, result.FilePath, caption)
		})
		h.reportOutcome(chatID, statusID, outcome)
	}()
}

// reportOutcome translates the orchestrator's terminal result into a user
// message, replacing the "downloading" status message.
func (h *Handler) reportOutcome(chatID int64, statusID int, outcome orchestrator.Outcome) {
	switch outcome.Kind {
	case orchestrator.Delivered:
		if statusID != 0 {
			_ = h.bot.DeleteMessage(chatID, statusID)
		}
	case orchestrator.Busy:
		h.replaceStatus(chatID, statusID, lang.GetMessage(lang.BusyMsgID))
	case orchestrator.Rejected:
		h.replaceStatus(chatID, statusID, lang.GetMessage(lang.TooLargeMsgID,
			utils.HumanSize(outcome.Size), utils.HumanSize(outcome.Limit)))
	default:
		h.replaceStatus(chatID, statusID, lang.GetMessage(lang.DownloadFailedMsgID))
	}
}

func (h *Handler) replaceStatus(chatID int64, statusID int, text string) {
	if statusID == 0 {
		h.bot.SendMessage(chatID, text, nil)
		return
	}
	if err := h.bot.EditMessageText(chatID, statusID, text); err != nil {
		h.bot.SendMessage(chatID, text, nil)
	}
}
