package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// maxTitleRunes bounds generated file names so paths stay inside filesystem
// limits even for absurdly long video titles.
const maxTitleRunes = 100

var unsafeFileChars = regexp.MustCompile(`[^а-яА-Яa-zA-Z0-9]+`)

func SanitizeFileName(name string) string {
	sanitized := unsafeFileChars.ReplaceAllString(name, "_")
	return strings.Trim(sanitized, "_")
}

// TruncateTitle cuts s to at most n runes.
func TruncateTitle(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// GenerateFileName builds a safe mp4 file name out of a media title.
func GenerateFileName(title string) string {
	sanitized := SanitizeFileName(TruncateTitle(title, maxTitleRunes))
	if sanitized == "" {
		sanitized = "video"
	}
	return sanitized + ".mp4"
}

// HumanSize formats a byte count the way the bot reports it to users.
func HumanSize(bytes int64) string {
	const mb = 1024 * 1024
	return fmt.Sprintf("%.1fMB", float64(bytes)/mb)
}
