package lang

type MessageID string

const (
	StartMsgID           MessageID = "start"
	HelpMsgID            MessageID = "help"
	SendLinkPromptMsgID  MessageID = "send_link_prompt"
	DownloadButtonMsgID  MessageID = "download_button"
	HelpButtonMsgID      MessageID = "help_button"
	NotAURLMsgID         MessageID = "not_a_url"
	UnsupportedLinkMsgID MessageID = "unsupported_link"
	DownloadingMsgID     MessageID = "downloading"
	BusyMsgID            MessageID = "busy"
	DownloadFailedMsgID  MessageID = "download_failed"
	TooLargeMsgID        MessageID = "too_large"
	VideoCaptionMsgID    MessageID = "video_caption"
	UnknownCommandMsgID  MessageID = "unknown_command"
)

var messages = map[MessageID]map[string]string{
	StartMsgID: {
		"en": "🤖 *Video Downloader Bot*\n\nI can download videos from:\n• YouTube\n• TikTok\n• Instagram\n• VK\n\nJust send me a video link!",
		"ru": "🤖 *Video Downloader Bot*\n\nЯ могу скачать видео с:\n• YouTube\n• TikTok\n• Instagram\n• VK\n\nПросто отправьте мне ссылку на видео!",
	},
	HelpMsgID: {
		"en": "📖 *How to use:*\n1. Send a video link\n2. I will download it in the best quality\n\n🔗 *Supported platforms:*\n• YouTube\n• TikTok\n• Instagram\n• VK",
		"ru": "📖 *Как использовать:*\n1. Отправьте ссылку на видео\n2. Я скачаю его в максимальном качестве\n\n🔗 *Поддерживаемые платформы:*\n• YouTube\n• TikTok\n• Instagram\n• VK",
	},
	SendLinkPromptMsgID: {
		"en": "📥 Send me a video link",
		"ru": "📥 Отправьте ссылку на видео",
	},
	DownloadButtonMsgID: {
		"en": "📥 Download video",
		"ru": "📥 Скачать видео",
	},
	HelpButtonMsgID: {
		"en": "❓ Help",
		"ru": "❓ Помощь",
	},
	NotAURLMsgID: {
		"en": "❌ Please send a valid video link",
		"ru": "❌ Пожалуйста, отправьте валидную ссылку на видео",
	},
	UnsupportedLinkMsgID: {
		"en": "❌ This link type is not supported",
		"ru": "❌ Этот тип ссылки не поддерживается",
	},
	DownloadingMsgID: {
		"en": "⏳ Downloading video...",
		"ru": "⏳ Скачиваю видео...",
	},
	BusyMsgID: {
		"en": "⏳ A download is already in progress for this chat. Wait for it to finish.",
		"ru": "⏳ Предыдущая загрузка ещё выполняется. Дождитесь её завершения.",
	},
	DownloadFailedMsgID: {
		"en": "❌ Could not download the video. Try another link.",
		"ru": "❌ Не удалось скачать видео. Попробуйте другую ссылку.",
	},
	TooLargeMsgID: {
		"en": "❌ The video is too large: %s (limit %s)",
		"ru": "❌ Видео слишком большое: %s (лимит %s)",
	},
	VideoCaptionMsgID: {
		"en": "✅ Video downloaded!\n💾 Size: %s",
		"ru": "✅ Видео скачано!\n💾 Размер: %s",
	},
	UnknownCommandMsgID: {
		"en": "❓ Unknown command. Use /start or /help",
		"ru": "❓ Неизвестная команда. Используйте /start или /help",
	},
}
