package testutils

import (
	"testing"
	"time"

	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
)

// TestConfig returns a configuration suitable for tests, with tempPath as the
// download root.
func TestConfig(tempPath string) *vfbconfig.Config {
	return &vfbconfig.Config{
		BotToken:   "test-token",
		TempPath:   tempPath,
		Lang:       "en",
		LogLevel:   "error",
		ListenAddr: ":0",
		YTDLPPath:  "yt-dlp",
		DownloadSettings: vfbconfig.DownloadConfig{
			MaxFileSize:            50 * 1024 * 1024,
			MaxConcurrentDownloads: 3,
			DownloadTimeout:        time.Minute,
			ProbeTimeout:           10 * time.Second,
		},
	}
}

// WaitFor polls cond until it returns true or the timeout expires.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
