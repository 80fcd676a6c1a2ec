package orchestrator

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/testutils"
)

func factoryFor(mock *testutils.MockExtractor) Factory {
	return func(classifier.PlatformTag) (extractor.Extractor, error) {
		return mock, nil
	}
}

func noDelivery(*extractor.Result) error { return nil }

func TestHandleHappyPath(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 10 * 1024 * 1024}
	o := New(cfg, factoryFor(mock))

	var delivered *extractor.Result
	var deliveredPath string
	outcome := o.Handle(context.Background(), NewRequest("https://youtu.be/abc123", 100, classifier.YouTube),
		func(res *extractor.Result) error {
			delivered = res
			deliveredPath = res.FilePath
			if _, err := os.Stat(res.FilePath); err != nil {
				t.Errorf("file must exist during delivery: %v", err)
			}
			return nil
		})

	if outcome.Kind != Delivered {
		t.Fatalf("expected Delivered, got %v (err: %v)", outcome.Kind, outcome.Err)
	}
	if outcome.Title != "Demo" {
		t.Errorf("outcome title = %q, want Demo", outcome.Title)
	}
	if delivered == nil || delivered.Size != 10*1024*1024 {
		t.Errorf("delivery callback did not receive the result: %+v", delivered)
	}
	if _, err := os.Stat(deliveredPath); !os.IsNotExist(err) {
		t.Errorf("temp file must be deleted after delivery, stat err: %v", err)
	}
	if o.slots.Held(100) {
		t.Error("slot must be released after handle returns")
	}
}

func TestHandleBusySingleFlight(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	block := make(chan struct{})
	mock := &testutils.MockExtractor{Title: "Slow", FileSize: 1024, Block: block}
	o := New(cfg, factoryFor(mock))

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = o.Handle(context.Background(), NewRequest("https://youtu.be/one", 55, classifier.YouTube), noDelivery)
	}()

	testutils.WaitFor(t, 2*time.Second, func() bool { return o.slots.Held(55) })

	second := o.Handle(context.Background(), NewRequest("https://youtu.be/two", 55, classifier.YouTube), noDelivery)
	if second.Kind != Busy {
		t.Fatalf("second concurrent request for the same session must be Busy, got %v", second.Kind)
	}
	if calls := mock.ExtractCalls(); calls != 1 {
		t.Fatalf("busy request must not invoke the extractor, got %d calls", calls)
	}

	close(block)
	wg.Wait()
	if first.Kind != Delivered {
		t.Fatalf("first request should complete normally, got %v", first.Kind)
	}
}

func TestHandleWorkerSaturationRejects(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	cfg.DownloadSettings.MaxConcurrentDownloads = 1
	block := make(chan struct{})
	mock := &testutils.MockExtractor{Title: "Slow", FileSize: 1024, Block: block}
	o := New(cfg, factoryFor(mock))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.Handle(context.Background(), NewRequest("https://youtu.be/one", 1, classifier.YouTube), noDelivery)
	}()
	testutils.WaitFor(t, 2*time.Second, func() bool { return o.slots.Held(1) })

	// Different session, but the single worker is occupied.
	outcome := o.Handle(context.Background(), NewRequest("https://youtu.be/two", 2, classifier.YouTube), noDelivery)
	if outcome.Kind != Busy {
		t.Fatalf("expected Busy under worker saturation, got %v", outcome.Kind)
	}
	if o.slots.Held(2) {
		t.Error("slot for the rejected session must be released")
	}

	close(block)
	wg.Wait()
}

func TestHandleSizePolicyRejectsAndDeletes(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	cfg.DownloadSettings.MaxFileSize = 50 * 1024 * 1024
	// 60 MiB download against a 50 MiB limit. Keep the actual bytes small by
	// reporting the size through the result only.
	mock := &testutils.MockExtractor{Title: "Big", FileSize: 60 * 1024 * 1024}
	o := New(cfg, factoryFor(mock))

	outcome := o.Handle(context.Background(), NewRequest("https://vk.com/video1", 9, classifier.VK), noDelivery)

	if outcome.Kind != Rejected {
		t.Fatalf("expected Rejected, got %v", outcome.Kind)
	}
	if outcome.Size != 60*1024*1024 || outcome.Limit != 50*1024*1024 {
		t.Errorf("outcome must report measured size and limit, got size=%d limit=%d", outcome.Size, outcome.Limit)
	}
	if _, err := os.Stat(mock.LastFilePath); !os.IsNotExist(err) {
		t.Errorf("oversized file must be deleted, stat err: %v", err)
	}
}

func TestHandleProbeRejectsBeforeDownload(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	cfg.DownloadSettings.MaxFileSize = 50 * 1024 * 1024
	mock := &testutils.MockExtractor{Title: "Huge", ProbeSize: 200 * 1024 * 1024}
	o := New(cfg, factoryFor(mock))

	outcome := o.Handle(context.Background(), NewRequest("https://youtu.be/huge", 3, classifier.YouTube), noDelivery)

	if outcome.Kind != Rejected {
		t.Fatalf("expected Rejected from probe, got %v", outcome.Kind)
	}
	if calls := mock.ExtractCalls(); calls != 0 {
		t.Errorf("probe rejection must not download, extract called %d times", calls)
	}
}

func TestHandleExtractionFailureCleansPartial(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	mock := &testutils.MockExtractor{
		Title:        "Broken",
		ExtractErr:   extractor.ErrNoFormats,
		PartialBytes: 2048,
	}
	o := New(cfg, factoryFor(mock))

	outcome := o.Handle(context.Background(), NewRequest("https://www.tiktok.com/@u/video/1", 4, classifier.TikTok), noDelivery)

	if outcome.Kind != Failed {
		t.Fatalf("expected Failed, got %v", outcome.Kind)
	}
	if !errors.Is(outcome.Err, extractor.ErrNoFormats) {
		t.Errorf("outcome must carry the classified reason, got %v", outcome.Err)
	}
	if _, err := os.Stat(mock.LastFilePath); !os.IsNotExist(err) {
		t.Errorf("partial file must be deleted, stat err: %v", err)
	}
	if o.slots.Held(4) {
		t.Error("slot must be released after failure")
	}
}

func TestHandleDeliveryFailureStillCleansUp(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 1024}
	o := New(cfg, factoryFor(mock))

	deliveryErr := errors.New("telegram upload failed")
	outcome := o.Handle(context.Background(), NewRequest("https://youtu.be/abc", 5, classifier.YouTube),
		func(*extractor.Result) error { return deliveryErr })

	if outcome.Kind != Failed {
		t.Fatalf("expected Failed on delivery error, got %v", outcome.Kind)
	}
	if !errors.Is(outcome.Err, deliveryErr) {
		t.Errorf("outcome err = %v, want delivery error", outcome.Err)
	}
	if _, err := os.Stat(mock.LastFilePath); !os.IsNotExist(err) {
		t.Errorf("file must be deleted even when delivery fails, stat err: %v", err)
	}
}

func TestHandleFactoryErrorIsFailed(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	factoryErr := errors.New("no backend")
	o := New(cfg, func(classifier.PlatformTag) (extractor.Extractor, error) {
		return nil, factoryErr
	})

	outcome := o.Handle(context.Background(), NewRequest("https://vk.com/video2", 6, classifier.VK), noDelivery)
	if outcome.Kind != Failed {
		t.Fatalf("expected Failed, got %v", outcome.Kind)
	}
	if o.slots.Held(6) {
		t.Error("slot must be released when no backend exists")
	}
}

func TestHandleSequentialRequestsReuseSession(t *testing.T) {
	cfg := testutils.TestConfig(t.TempDir())
	mock := &testutils.MockExtractor{Title: "Demo", FileSize: 512}
	o := New(cfg, factoryFor(mock))

	for i := 0; i < 3; i++ {
		outcome := o.Handle(context.Background(), NewRequest("https://youtu.be/seq", 77, classifier.YouTube), noDelivery)
		if outcome.Kind != Delivered {
			t.Fatalf("request %d: expected Delivered, got %v", i, outcome.Kind)
		}
	}
	if calls := mock.ExtractCalls(); calls != 3 {
		t.Errorf("expected 3 extractions, got %d", calls)
	}
}
