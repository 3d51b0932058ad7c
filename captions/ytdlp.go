package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// YtDlpConfig holds the configuration for the yt-dlp provider
type YtDlpConfig struct {
	Path     string        // yt-dlp executable
	Timeout  time.Duration // Per-invocation timeout
	Language string        // Preferred subtitle language
	MaxBytes int64         // Caption payload size limit
}

// YtDlp reads video metadata by running yt-dlp and downloads caption
// payloads over HTTP.
type YtDlp struct {
	config YtDlpConfig
	client *http.Client
	logger *logrus.Logger
}

func NewYtDlp(cfg YtDlpConfig, client *http.Client, logger *logrus.Logger) *YtDlp {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &YtDlp{config: cfg, client: client, logger: logger}
}

// Available reports whether the yt-dlp executable can be found.
func (y *YtDlp) Available() error {
	if _, err := exec.LookPath(y.config.Path); err != nil {
		return errors.Wrapf(err, "yt-dlp not available at %q", y.config.Path)
	}
	return nil
}

func (y *YtDlp) Info(ctx context.Context, videoURL string) (*VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, y.config.Timeout)
	defer cancel()

	args := buildArgs(videoURL, y.config.Language)
	logger := y.logger.WithContext(ctx).WithField("url", videoURL)
	logger.WithField("args", args).Debug("Executing yt-dlp")

	cmd := exec.CommandContext(ctx, y.config.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		stderrOutput := strings.TrimSpace(stderr.String())
		logger.WithError(err).
			WithField("stderr", stderrOutput).
			Error("yt-dlp execution failed")
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "yt-dlp timed out")
		}
		return nil, errors.Errorf("%v (stderr: %s)", err, lastLine(stderrOutput))
	}

	var info VideoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		logger.WithError(err).Error("Invalid yt-dlp JSON output")
		return nil, errors.Wrap(err, "invalid yt-dlp output")
	}

	logger.WithFields(logrus.Fields{
		"duration":     time.Since(start),
		"manual_langs": info.Subtitles.Len(),
		"auto_langs":   info.AutomaticCaptions.Len(),
	}).Debug("yt-dlp metadata received")

	return &info, nil
}

func (y *YtDlp) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "invalid caption URL")
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "caption download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("caption download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, y.config.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading caption payload")
	}
	if int64(len(data)) > y.config.MaxBytes {
		return nil, errors.Errorf("caption payload exceeds %d bytes", y.config.MaxBytes)
	}
	return data, nil
}

func buildArgs(videoURL, lang string) []string {
	return []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", lang,
		"--", videoURL,
	}
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// WatchURL is the canonical page URL for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
