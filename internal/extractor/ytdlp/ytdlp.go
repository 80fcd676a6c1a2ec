package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/akozhevin/video-fetch-bot/internal/classifier"
	vfbconfig "github.com/akozhevin/video-fetch-bot/internal/config"
	"github.com/akozhevin/video-fetch-bot/internal/extractor"
	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

// FormatSelector prefers a widely compatible mp4 container and falls back to
// the best available format when that combination does not exist.
const FormatSelector = "best[ext=mp4]/best"

// titleLimit bounds the title component of the output template so generated
// paths stay within filesystem limits.
const titleLimit = 100

type Extractor struct {
	binary string
	config *vfbconfig.Config
}

func New(config *vfbconfig.Config) *Extractor {
	return &Extractor{
		binary: config.YTDLPPath,
		config: config,
	}
}

// Available reports whether the yt-dlp binary can be found.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func (*Extractor) Name() string { return "yt-dlp" }

// metadata is the subset of the yt-dlp info JSON the bot cares about.
type metadata struct {
	Title          string  `json:"title"`
	Duration       float64 `json:"duration"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	Filename       string  `json:"_filename"`
}

func (m *metadata) expectedSize() int64 {
	if m.Filesize > 0 {
		return m.Filesize
	}
	return m.FilesizeApprox
}

// Probe fetches metadata without downloading. Callers use ExpectedSize to
// reject oversized videos before spending bandwidth on them.
func (e *Extractor) Probe(ctx context.Context, url string) (*extractor.Probe, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.DownloadSettings.ProbeTimeout)
	defer cancel()

	args := []string{"--skip-download", "--print-json", "--no-playlist", "--no-warnings", url}
	cmd := exec.CommandContext(ctx, e.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp probe: %v", extractor.ErrExtraction, err)
	}

	var info metadata
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("%w: parse yt-dlp json: %v", extractor.ErrExtraction, err)
	}

	return &extractor.Probe{
		Title:        info.Title,
		Duration:     time.Duration(info.Duration * float64(time.Second)),
		ExpectedSize: info.expectedSize(),
	}, nil
}

func (e *Extractor) Extract(ctx context.Context, url, destDir string) (*extractor.Result, error) {
	cmdArgs := buildArgs(url, destDir)

	cmd := exec.CommandContext(ctx, e.binary, cmdArgs...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		stderrOutput := stderr.String()
		logutils.Log.WithError(err).WithField("url", url).Errorf("yt-dlp exited with error: %s", stderrOutput)
		return nil, classifyError(err, stderrOutput)
	}

	var info metadata
	if jsonErr := json.Unmarshal(output, &info); jsonErr != nil {
		logutils.Log.WithError(jsonErr).Debug("yt-dlp output was not parseable JSON, falling back to directory scan")
	}

	filePath := info.Filename
	if filePath == "" {
		filePath, err = findDownloadedFile(destDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", extractor.ErrExtraction, err)
		}
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat output file: %v", extractor.ErrWriteFailed, err)
	}

	title := info.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	return &extractor.Result{
		FilePath: filePath,
		Title:    title,
		Duration: time.Duration(info.Duration * float64(time.Second)),
		Size:     stat.Size(),
		Platform: classifier.Classify(url),
	}, nil
}

func buildArgs(url, destDir string) []string {
	outputTemplate := filepath.Join(destDir, fmt.Sprintf("%%(title).%ds.%%(ext)s", titleLimit))
	return []string{
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--print-json",
		"-f", FormatSelector,
		"-o", outputTemplate,
		url,
	}
}

// classifyError maps a failed yt-dlp run onto the extractor error taxonomy
// using the stderr output.
func classifyError(err error, stderrOutput string) error {
	lower := strings.ToLower(stderrOutput)

	noFormatMarkers := []string{
		"requested format is not available",
		"no video formats found",
		"no suitable formats",
		"unsupported url",
	}
	for _, marker := range noFormatMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", extractor.ErrNoFormats, firstLine(stderrOutput))
		}
	}

	writeMarkers := []string{
		"unable to open for writing",
		"unable to write",
		"no space left on device",
		"permission denied",
	}
	for _, marker := range writeMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", extractor.ErrWriteFailed, firstLine(stderrOutput))
		}
	}

	return fmt.Errorf("%w: yt-dlp: %v: %s", extractor.ErrExtraction, err, firstLine(stderrOutput))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// findDownloadedFile returns the largest regular file in dir. Each download
// runs in its own request directory, so the produced video is the only
// significant entry.
func findDownloadedFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read output dir: %w", err)
	}

	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}

	if best == "" {
		return "", fmt.Errorf("no output file produced in %s", dir)
	}
	return best, nil
}
