package summary

import (
	"context"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/llm"
	"github.com/nijaru/yt-summary/prompt"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

const (
	msgNoURL        = "No URL provided."
	msgInvalidLink  = "Invalid YouTube Link."
	msgNoClient     = "Mistral API Key or client initialization failed."
	transcriptError = "Failed to get transcript: "
	modelError      = "Mistral API Error: "
)

type service struct {
	fetcher TranscriptFetcher
	model   llm.Client
	logger  *logrus.Logger
}

// NewService creates a new summary service. model may be nil when no API
// key is configured; every call then fails with a config error.
func NewService(fetcher TranscriptFetcher, model llm.Client, logger *logrus.Logger) Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		fetcher: fetcher,
		model:   model,
		logger:  logger,
	}
}

func (s *service) Summarize(ctx context.Context, videoURL string) (string, error) {
	const op = "SummaryService.Summarize"
	logger := s.logger.WithContext(ctx).WithField("url", videoURL)

	if s.model == nil {
		return "", errors.Config(op, nil, msgNoClient)
	}

	if videoURL == "" {
		return "", errors.InvalidInput(op, nil, msgNoURL)
	}

	videoID, ok := validation.ExtractVideoID(videoURL)
	if !ok {
		logger.Warn("No video id in URL")
		return "", errors.InvalidURL(op, msgInvalidLink)
	}
	logger = logger.WithField("video_id", videoID)

	logger.Info("Fetching transcript")
	transcript, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		logger.WithError(err).Warn("Transcript fetch failed")
		return "", transcriptFailure(op, err)
	}
	logger.WithField("length", len(transcript)).Debug("Transcript fetched")

	logger.Info("Summarizing")
	text, err := s.model.Complete(ctx, llm.UserMessage(prompt.Summary(transcript)))
	if err != nil {
		logger.WithError(err).Error("Model call failed")
		return "", errors.Model(op, err, modelError+err.Error())
	}

	return text, nil
}

// transcriptFailure keeps the caption error's kind and prefixes its message.
func transcriptFailure(op string, err error) error {
	if appErr, ok := errors.As(err); ok {
		return errors.E(appErr.Kind, op, err, transcriptError+appErr.Message)
	}
	return errors.CaptionFetch(op, err, transcriptError+err.Error())
}
