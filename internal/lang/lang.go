package lang

import (
	"fmt"

	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

var lang string

func SetupLang(config *vfbconfig.Config) {
	lang = config.Lang
}

func GetMessage(id MessageID, args ...interface{}) string {
	if m, ok := messages[id]; ok {
		if msg, ok := m[lang]; ok {
			return fmt.Sprintf(msg, args...)
		}
		if msg, ok := m["en"]; ok {
			return fmt.Sprintf(msg, args...)
		}
	}
	logutils.Log.Warnf("Message not found for ID: %s", id)
	return "Message not found"
}
