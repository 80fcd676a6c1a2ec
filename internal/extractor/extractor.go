package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
)

// Result describes one extracted media file. The file at FilePath is owned by
// the caller, which is responsible for deleting it.
type Result struct {
	FilePath string
	Title    string
	Duration time.Duration
	Size     int64
	Platform classifier.PlatformTag
}

// Probe carries metadata obtained without downloading. ExpectedSize is 0 when
// the source does not report a size up front.
type Probe struct {
	Title        string
	Duration     time.Duration
	ExpectedSize int64
}

// Extractor turns a media URL into a local file plus metadata. Extract writes
// only inside destDir; partial files it leaves behind are cleaned up by the
// caller together with destDir.
type Extractor interface {
	Name() string
	Probe(ctx context.Context, url string) (*Probe, error)
	Extract(ctx context.Context, url, destDir string) (*Result, error)
}

// Failure reasons. All of them collapse to one user-visible "download failed"
// message but are logged distinctly.
var (
	ErrExtraction  = errors.New("extraction failed")
	ErrNoFormats   = errors.New("no suitable formats available")
	ErrWriteFailed = errors.New("failed to write output file")
)

// Reason maps an extraction error to its log label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoFormats):
		return "no_formats"
	case errors.Is(err, ErrWriteFailed):
		return "write_failed"
	default:
		return "extraction"
	}
}
