package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
	"github.com/akozhevin/video-fetch-bot/internal/utils"
)

// Extractor downloads YouTube videos natively, without the yt-dlp binary.
// It serves as the fallback when yt-dlp is not installed; only YouTube links
// can take this path.
type Extractor struct {
	client youtube.Client
	config *vfbconfig.Config
}

func New(config *vfbconfig.Config) *Extractor {
	return &Extractor{config: config}
}

func (*Extractor) Name() string { return "youtube-native" }

func (e *Extractor) Probe(ctx context.Context, url string) (*extractor.Probe, error) {
	video, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: get video info: %v", extractor.ErrExtraction, err)
	}

	probe := &extractor.Probe{
		Title:    video.Title,
		Duration: video.Duration,
	}
	if format := bestMuxedFormat(video); format != nil {
		probe.ExpectedSize = format.ContentLength
	}
	return probe, nil
}

func (e *Extractor) Extract(ctx context.Context, url, destDir string) (*extractor.Result, error) {
	video, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: get video info: %v", extractor.ErrExtraction, err)
	}

	format := bestMuxedFormat(video)
	if format == nil {
		return nil, fmt.Errorf("%w: no muxed format with audio for %s", extractor.ErrNoFormats, url)
	}

	stream, _, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("%w: get stream: %v", extractor.ErrExtraction, err)
	}
	defer stream.Close()

	fileName := utils.GenerateFileName(video.Title)
	filePath := filepath.Join(destDir, fileName)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", extractor.ErrWriteFailed, filePath, err)
	}

	written, err := io.Copy(file, stream)
	closeErr := file.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: write stream: %v", extractor.ErrWriteFailed, err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w: close %s: %v", extractor.ErrWriteFailed, filePath, closeErr)
	}

	logutils.Log.WithFields(map[string]interface{}{
		"title": video.Title,
		"size":  written,
	}).Info("YouTube video downloaded natively")

	return &extractor.Result{
		FilePath: filePath,
		Title:    video.Title,
		Duration: video.Duration,
		Size:     written,
		Platform: classifier.YouTube,
	}, nil
}

// bestMuxedFormat picks the highest-resolution format that carries both video
// and audio, so no ffmpeg merge step is needed.
func bestMuxedFormat(video *youtube.Video) *youtube.Format {
	var best *youtube.Format
	for i := range video.Formats {
		format := &video.Formats[i]
		if format.AudioChannels == 0 || format.QualityLabel == "" {
			continue
		}
		if best == nil || format.Height > best.Height {
			best = format
		}
	}
	return best
}
