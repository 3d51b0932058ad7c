package captions

import (
	"context"
	"strings"

	"github.com/nijaru/yt-summary/errors"
	"github.com/sirupsen/logrus"
)

// InfoProvider looks up video metadata and fetches caption payloads.
type InfoProvider interface {
	Info(ctx context.Context, videoURL string) (*VideoInfo, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	Language     string
	AutoFallback bool
}

// Fetcher turns a video id into transcript text.
type Fetcher struct {
	provider InfoProvider
	opts     Options
	logger   *logrus.Logger
}

func NewFetcher(provider InfoProvider, opts Options, logger *logrus.Logger) *Fetcher {
	if opts.Language == "" {
		opts.Language = "en"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fetcher{provider: provider, opts: opts, logger: logger}
}

func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	const op = "Fetcher.Fetch"
	logger := f.logger.WithContext(ctx).WithField("video_id", videoID)

	info, err := f.provider.Info(ctx, WatchURL(videoID))
	if err != nil {
		return "", fetchError(op, err)
	}

	selection, err := SelectTrack(info, f.opts.Language, f.opts.AutoFallback)
	if err != nil {
		logger.WithError(err).Info("No usable caption track")
		return "", err
	}

	logger.WithFields(logrus.Fields{
		"language":  selection.Language,
		"automatic": selection.Automatic,
		"ext":       selection.Track.Ext,
	}).Debug("Selected caption track")

	payload, err := f.provider.Download(ctx, selection.Track.URL)
	if err != nil {
		return "", fetchError(op, err)
	}

	doc, err := ParseDocument(payload)
	if err != nil {
		return "", fetchError(op, err)
	}

	text := Flatten(doc)
	if strings.TrimSpace(text) == "" {
		return "", errors.EmptyTranscript(op)
	}

	logger.WithField("length", len(text)).Debug("Transcript extracted")
	return text, nil
}

func fetchError(op string, err error) error {
	return errors.CaptionFetch(op, err, "Failed to fetch transcript with yt-dlp: "+err.Error())
}
