package factory

import (
	"fmt"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/extractor/youtube"
	"github.com/akozhevin/video-fetch-bot/internal/extractor/ytdlp"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

// ExtractorFor selects the extraction backend for a platform. yt-dlp handles
// every supported platform; when the binary is missing, YouTube links fall
// back to the native client and everything else is refused.
func ExtractorFor(config *vfbconfig.Config, tag classifier.PlatformTag) (extractor.Extractor, error) {
	if ytdlp.Available(config.YTDLPPath) {
		return ytdlp.New(config), nil
	}

	if tag == classifier.YouTube {
		logutils.Log.Warn("yt-dlp binary not found, using native YouTube client")
		return youtube.New(config), nil
	}

	return nil, fmt.Errorf("%w: yt-dlp binary %q not found and no native backend for %s",
		extractor.ErrExtraction, config.YTDLPPath, tag)
}
