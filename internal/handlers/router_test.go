package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/lang"
	"github.com/akozhevin/video-fetch-bot/internal/orchestrator"
	"github.com/akozhevin/video-fetch-bot/internal/testutils"
)

var updateCounter int

func newTestHandler(t *testing.T, mock *testutils.MockExtractor) (*Handler, *testutils.MockBot) {
	t.Helper()
	cfg := testutils.TestConfig(t.TempDir())
	lang.SetupLang(cfg)
	mockBot := &testutils.MockBot{}
	orch := orchestrator.New(cfg, func(classifier.PlatformTag) (extractor.Extractor, error) {
		return mock, nil
	})
	return NewHandler(mockBot, cfg, orch), mockBot
}

func textUpdate(chatID int64, text string) *tgbotapi.Update {
	updateCounter++
	return &tgbotapi.Update{
		UpdateID: updateCounter,
		Message: &tgbotapi.Message{
			MessageID: updateCounter,
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
		},
	}
}

func commandUpdate(chatID int64, command string) *tgbotapi.Update {
	u := textUpdate(chatID, command)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return u
}

func TestStartCommandSendsMenu(t *testing.T) {
	h, mockBot := newTestHandler(t, &testutils.MockExtractor{})

	h.Route(context.Background(), commandUpdate(1, "/start"))

	msg := mockBot.GetLastMessage()
	if msg == nil {
		t.Fatal("no message sent")
	}
	if !strings.Contains(msg.Text, "Video Downloader Bot") {
		t.Errorf("start message text = %q", msg.Text)
	}
	if msg.Keyboard == nil {
		t.Error("start message must carry the inline keyboard")
	}
}

func TestHelpCommand(t *testing.T) {
	h, mockBot := newTestHandler(t, &testutils.MockExtractor{})

	h.Route(context.Background(), commandUpdate(1, "/help"))

	msg := mockBot.GetLastMessage()
	if msg == nil || !strings.Contains(msg.Text, "How to use") {
		t.Errorf("help message = %+v", msg)
	}
}

func TestUnknownCommand(t *testing.T) {
	h, mockBot := newTestHandler(t, &testutils.MockExtractor{})

	h.Route(context.Background(), commandUpdate(1, "/frobnicate"))

	msg := mockBot.GetLastMessage()
	if msg == nil || !strings.Contains(msg.Text, "Unknown command") {
		t.Errorf("unknown command reply = %+v", msg)
	}
}

func TestNotAURLText(t *testing.T) {
	mock := &testutils.MockExtractor{}
	h, mockBot := newTestHandler(t, mock)

	h.Route(context.Background(), textUpdate(1, "hello there"))

	msg := mockBot.GetLastMessage()
	if msg == nil || !strings.Contains(msg.Text, "valid video link") {
		t.Errorf("not-a-url reply = %+v", msg)
	}
	if mock.ExtractCalls() != 0 {
		t.Error("non-URL text must not reach the extractor")
	}
}

func TestUnsupportedDomain(t *testing.T) {
	mock := &testutils.MockExtractor{}
	h, mockBot := newTestHandler(t, mock)

	h.Route(context.Background(), textUpdate(1, "https://example.com/video"))

	msg := mockBot.GetLastMessage()
	if msg == nil || !strings.Contains(msg.Text, "not supported") {
		t.Errorf("unsupported reply = %+v", msg)
	}
	if mock.ExtractCalls() != 0 {
		t.Error("unsupported URLs must not reach the extractor")
	}
}

func TestDownloadLinkDelivered(t *testing.T) {
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 10 * 1024 * 1024}
	h, mockBot := newTestHandler(t, mock)

	h.Route(context.Background(), textUpdate(42, "https://youtu.be/abc123"))

	testutils.WaitFor(t, 2*time.Second, func() bool { return mockBot.VideoCount() == 1 })

	video := mockBot.GetLastVideo()
	if video.ChatID != 42 {
		t.Errorf("video sent to chat %d, want 42", video.ChatID)
	}
	if !strings.Contains(video.Caption, "10.0MB") {
		t.Errorf("caption = %q, want the file size in it", video.Caption)
	}

	// The "downloading" status message is deleted on success.
	testutils.WaitFor(t, 2*time.Second, func() bool { return mockBot.DeletedCount() == 1 })
}

func TestDownloadLinkBusy(t *testing.T) {
	block := make(chan struct{})
	mock := &testutils.MockExtractor{Title: "Slow", FileSize: 1024, Block: block}
	h, mockBot := newTestHandler(t, mock)

	h.Route(context.Background(), textUpdate(7, "https://youtu.be/first"))
	testutils.WaitFor(t, 2*time.Second, func() bool { return mock.ExtractCalls() == 1 })

	h.Route(context.Background(), textUpdate(7, "https://youtu.be/second"))
	testutils.WaitFor(t, 2*time.Second, func() bool {
		edit := mockBot.LastEdit()
		return edit != nil && strings.Contains(edit.Text, "already in progress")
	})

	if mock.ExtractCalls() != 1 {
		t.Errorf("second request must not start a second extraction, got %d", mock.ExtractCalls())
	}

	close(block)
	testutils.WaitFor(t, 2*time.Second, func() bool { return mockBot.VideoCount() == 1 })
}

func TestDuplicateUpdateIgnored(t *testing.T) {
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 1024}
	h, mockBot := newTestHandler(t, mock)

	update := textUpdate(9, "https://youtu.be/dup")
	h.Route(context.Background(), update)
	testutils.WaitFor(t, 2*time.Second, func() bool { return mockBot.VideoCount() == 1 })

	h.Route(context.Background(), update)
	time.Sleep(100 * time.Millisecond)

	if mock.ExtractCalls() != 1 {
		t.Errorf("redelivered update must not trigger a second download, got %d extractions", mock.ExtractCalls())
	}
}

func TestDeliveryFailureReportsError(t *testing.T) {
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 1024}
	h, mockBot := newTestHandler(t, mock)
	mockBot.SendVideoError = errors.New("upload failed")

	h.Route(context.Background(), textUpdate(3, "https://vk.com/video-1_2"))

	testutils.WaitFor(t, 2*time.Second, func() bool {
		edit := mockBot.LastEdit()
		return edit != nil && strings.Contains(edit.Text, "Could not download")
	})
}

func TestTooLargeReportsSizes(t *testing.T) {
	mock := &testutils.MockExtractor{Title: "Big", ProbeSize: 60 * 1024 * 1024}
	h, mockBot := newTestHandler(t, mock)

	h.Route(context.Background(), textUpdate(4, "https://youtu.be/big"))

	testutils.WaitFor(t, 2*time.Second, func() bool {
		edit := mockBot.LastEdit()
		return edit != nil && strings.Contains(edit.Text, "60.0MB") && strings.Contains(edit.Text, "50.0MB")
	})
}

func TestCallbackQueryDownloadInfo(t *testing.T) {
	h, mockBot := newTestHandler(t, &testutils.MockExtractor{})

	updateCounter++
	h.Route(context.Background(), &tgbotapi.Update{
		UpdateID: updateCounter,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			Data:    callbackDownloadInfo,
			Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 5}},
		},
	})

	if len(mockBot.AnsweredIDs) != 1 || mockBot.AnsweredIDs[0] != "cb-1" {
		t.Errorf("callback not answered: %v", mockBot.AnsweredIDs)
	}
	msg := mockBot.GetLastMessage()
	if msg == nil || !strings.Contains(msg.Text, "Send me a video link") {
		t.Errorf("callback reply = %+v", msg)
	}
}

func TestSeenUpdatesEvictsOldEntries(t *testing.T) {
	seen := newSeenUpdates(3)

	for id := 1; id <= 4; id++ {
		if seen.Seen(id) {
			t.Errorf("fresh id %d reported as seen", id)
		}
	}
	// id 1 was evicted by id 4.
	if seen.Seen(1) {
		t.Error("evicted id must be forgotten")
	}
	if !seen.Seen(4) {
		t.Error("recent id must still be remembered")
	}
}
