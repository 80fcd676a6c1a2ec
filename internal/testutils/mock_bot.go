package testutils

import "sync"

// MockMessage captures a single message sent by MockBot.
type MockMessage struct {
	ChatID   int64
	Text     string
	Keyboard any
}

// MockVideo captures a single video upload sent by MockBot.
type MockVideo struct {
	ChatID   int64
	FilePath string
	Caption  string
}

// MockBot implements bot.Service for testing. Handlers run downloads on
// their own goroutines, so every method is safe for concurrent use.
type MockBot struct {
	mu            sync.Mutex
	SentMessages  []MockMessage
	SentVideos    []MockVideo
	EditedTexts   []MockMessage
	DeletedIDs    []int
	AnsweredIDs   []string
	nextMessageID int

	// SendVideoError, if set, is returned by SendVideoFile.
	SendVideoError error
}

func (m *MockBot) SendMessage(chatID int64, text string, keyboard any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, MockMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
}

func (m *MockBot) SendMessageReturningID(chatID int64, text string, keyboard any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, MockMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	m.nextMessageID++
	return m.nextMessageID, nil
}

func (m *MockBot) EditMessageText(chatID int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditedTexts = append(m.EditedTexts, MockMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *MockBot) DeleteMessage(_ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletedIDs = append(m.DeletedIDs, messageID)
	return nil
}

func (m *MockBot) SendVideoFile(chatID int64, filePath, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendVideoError != nil {
		return m.SendVideoError
	}
	m.SentVideos = append(m.SentVideos, MockVideo{ChatID: chatID, FilePath: filePath, Caption: caption})
	return nil
}

func (m *MockBot) AnswerCallbackQuery(callbackID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnsweredIDs = append(m.AnsweredIDs, callbackID)
}

// GetLastMessage returns the most recently sent message, or nil if none.
func (m *MockBot) GetLastMessage() *MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return nil
	}
	msg := m.SentMessages[len(m.SentMessages)-1]
	return &msg
}

// MessageCount returns how many plain messages were sent.
func (m *MockBot) MessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentMessages)
}

// VideoCount returns how many videos were uploaded.
func (m *MockBot) VideoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentVideos)
}

// GetLastVideo returns the most recently uploaded video, or nil if none.
func (m *MockBot) GetLastVideo() *MockVideo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentVideos) == 0 {
		return nil
	}
	v := m.SentVideos[len(m.SentVideos)-1]
	return &v
}

// DeletedCount returns how many messages were deleted.
func (m *MockBot) DeletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DeletedIDs)
}

// LastEdit returns the most recent message edit, or nil if none.
func (m *MockBot) LastEdit() *MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.EditedTexts) == 0 {
		return nil
	}
	e := m.EditedTexts[len(m.EditedTexts)-1]
	return &e
}
