package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
	"github.com/akozhevin/video-fetch-bot/internal/pkg/metrics"
)

// Request is one accepted download submission. Immutable after creation.
type Request struct {
	ID          string
	URL         string
	ChatID      int64
	Platform    classifier.PlatformTag
	SubmittedAt time.Time
}

func NewRequest(url string, chatID int64, platform classifier.PlatformTag) Request {
	return Request{
		ID:          uuid.New().String(),
		URL:         url,
		ChatID:      chatID,
		Platform:    platform,
		SubmittedAt: time.Now(),
	}
}

// Factory selects the extraction backend for a platform.
type Factory func(tag classifier.PlatformTag) (extractor.Extractor, error)

// DeliverFunc uploads the extracted file to the originating chat. The file is
// only valid for the duration of the call; the orchestrator deletes it
// afterwards regardless of the delivery result.
type DeliverFunc func(result *extractor.Result) error

// Orchestrator runs the single-flight download pipeline: slot acquisition,
// extraction off the event path, size policy, delivery, cleanup.
type Orchestrator struct {
	config  *vfbconfig.Config
	factory Factory
	slots   *SessionSlots
	workers chan struct{}
}

func New(config *vfbconfig.Config, factory Factory) *Orchestrator {
	return &Orchestrator{
		config:  config,
		factory: factory,
		slots:   NewSessionSlots(),
		workers: make(chan struct{}, config.DownloadSettings.MaxConcurrentDownloads),
	}
}

// Handle processes one request to a terminal Outcome. Every failure is
// converted to an Outcome; nothing propagates out. The request's temp
// directory is removed on every exit path other than Busy (where it is never
// created).
func (o *Orchestrator) Handle(ctx context.Context, req Request, deliver DeliverFunc) Outcome {
	if !o.slots.TryAcquire(req.ChatID) {
		logutils.Log.WithFields(map[string]interface{}{
			"chat_id":    req.ChatID,
			"request_id": req.ID,
		}).Info("Download slot already held, rejecting request")
		metrics.DownloadsTotal.WithLabelValues(Busy.String(), req.Platform.String()).Inc()
		return Outcome{Kind: Busy}
	}
	defer o.slots.Release(req.ChatID)

	select {
	case o.workers <- struct{}{}:
	default:
		logutils.Log.WithField("request_id", req.ID).Warn("All download workers busy, rejecting request")
		metrics.DownloadsTotal.WithLabelValues(Busy.String(), req.Platform.String()).Inc()
		return Outcome{Kind: Busy}
	}
	defer func() { <-o.workers }()

	metrics.ActiveDownloads.Inc()
	start := time.Now()
	outcome := o.run(ctx, req, deliver)
	metrics.ActiveDownloads.Dec()
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	metrics.DownloadsTotal.WithLabelValues(outcome.Kind.String(), req.Platform.String()).Inc()

	return outcome
}

func (o *Orchestrator) run(ctx context.Context, req Request, deliver DeliverFunc) Outcome {
	maxSize := o.config.DownloadSettings.MaxFileSize

	// Request-scoped directory: concurrent sessions never share an output
	// namespace, and cleanup is one RemoveAll.
	requestDir := filepath.Join(o.config.TempPath, req.ID)
	if err := os.MkdirAll(requestDir, 0o755); err != nil {
		logutils.Log.WithError(err).WithField("dir", requestDir).Error("Failed to create request temp directory")
		return Outcome{Kind: Failed, Err: fmt.Errorf("%w: %v", extractor.ErrWriteFailed, err)}
	}
	defer func() {
		if err := os.RemoveAll(requestDir); err != nil {
			logutils.Log.WithError(err).WithField("dir", requestDir).Warn("Failed to remove request temp directory")
		}
	}()

	ext, err := o.factory(req.Platform)
	if err != nil {
		logutils.Log.WithError(err).WithField("url", req.URL).Error("No extraction backend available")
		return Outcome{Kind: Failed, Err: err}
	}

	if timeout := o.config.DownloadSettings.DownloadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Pre-download probe: skip the whole download when the source already
	// reports a size over the limit. Best effort; a failed probe or an
	// unknown size falls through to the real download.
	if probe, probeErr := ext.Probe(ctx, req.URL); probeErr == nil {
		if probe.ExpectedSize > maxSize {
			logutils.Log.WithFields(map[string]interface{}{
				"request_id":    req.ID,
				"expected_size": probe.ExpectedSize,
				"limit":         maxSize,
			}).Info("Probe reports oversized video, rejecting before download")
			return Outcome{Kind: Rejected, Title: probe.Title, Size: probe.ExpectedSize, Limit: maxSize}
		}
	} else {
		logutils.Log.WithError(probeErr).WithField("url", req.URL).Debug("Metadata probe failed, downloading anyway")
	}

	result, err := ext.Extract(ctx, req.URL, requestDir)
	if err != nil {
		logutils.Log.WithError(err).WithFields(map[string]interface{}{
			"request_id": req.ID,
			"url":        req.URL,
			"backend":    ext.Name(),
			"reason":     extractor.Reason(err),
		}).Error("Extraction failed")
		return Outcome{Kind: Failed, Err: err}
	}

	if result.Size > maxSize {
		logutils.Log.WithFields(map[string]interface{}{
			"request_id": req.ID,
			"size":       result.Size,
			"limit":      maxSize,
		}).Info("Downloaded file exceeds size limit, rejecting")
		return Outcome{Kind: Rejected, Title: result.Title, Size: result.Size, Limit: maxSize}
	}

	if err := deliver(result); err != nil {
		// The one case where a successful extraction is wasted. Accepted,
		// not retried; the file is still deleted.
		logutils.Log.WithError(err).WithFields(map[string]interface{}{
			"request_id": req.ID,
			"title":      result.Title,
		}).Error("Delivery to chat failed")
		return Outcome{Kind: Failed, Err: err}
	}

	logutils.Log.WithFields(map[string]interface{}{
		"request_id": req.ID,
		"title":      result.Title,
		"size":       result.Size,
		"duration":   time.Since(req.SubmittedAt).String(),
	}).Info("Download delivered")

	return Outcome{Kind: Delivered, Title: result.Title, Size: result.Size}
}
