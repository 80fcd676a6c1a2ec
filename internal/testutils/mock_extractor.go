package testutils

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/utils"
)

// MockExtractor implements extractor.Extractor. Extract writes a real file of
// FileSize bytes into destDir so cleanup behavior can be asserted on disk.
type MockExtractor struct {
	Title    string
	FileSize int64
	Duration time.Duration

	// ProbeSize is reported as the expected size; ProbeErr fails the probe.
	ProbeSize int64
	ProbeErr  error

	// ExtractErr, if set, is returned by Extract after PartialBytes (if any)
	// were written, simulating a failed download leaving a partial file.
	ExtractErr   error
	PartialBytes int64

	// Block, if non-nil, makes Extract wait until the channel is closed.
	Block chan struct{}

	extractCalls int32

	// LastFilePath records where the mock wrote its output.
	LastFilePath string
}

var _ extractor.Extractor = (*MockExtractor)(nil)

func (*MockExtractor) Name() string { return "mock" }

func (m *MockExtractor) Probe(_ context.Context, _ string) (*extractor.Probe, error) {
	if m.ProbeErr != nil {
		return nil, m.ProbeErr
	}
	return &extractor.Probe{
		Title:        m.Title,
		Duration:     m.Duration,
		ExpectedSize: m.ProbeSize,
	}, nil
}

func (m *MockExtractor) Extract(ctx context.Context, url, destDir string) (*extractor.Result, error) {
	atomic.AddInt32(&m.extractCalls, 1)

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.ExtractErr != nil {
		if m.PartialBytes > 0 {
			partial := filepath.Join(destDir, "partial.mp4.part")
			_ = os.WriteFile(partial, bytes.Repeat([]byte{0}, int(m.PartialBytes)), 0o644)
			m.LastFilePath = partial
		}
		return nil, m.ExtractErr
	}

	filePath := filepath.Join(destDir, utils.GenerateFileName(m.Title))
	if err := os.WriteFile(filePath, bytes.Repeat([]byte{0}, int(m.FileSize)), 0o644); err != nil {
		return nil, err
	}
	m.LastFilePath = filePath

	return &extractor.Result{
		FilePath: filePath,
		Title:    m.Title,
		Duration: m.Duration,
		Size:     m.FileSize,
		Platform: classifier.Classify(url),
	}, nil
}

// ExtractCalls reports how many times Extract was invoked.
func (m *MockExtractor) ExtractCalls() int {
	return int(atomic.LoadInt32(&m.extractCalls))
}
