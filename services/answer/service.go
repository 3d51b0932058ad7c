package answer

import (
	"context"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/llm"
	"github.com/nijaru/yt-summary/prompt"
	"github.com/sirupsen/logrus"
)

const msgNoClient = "Mistral API Key or client initialization failed."

type service struct {
	gate   Gate
	model  llm.Client
	logger *logrus.Logger
}

// NewService creates a new answer service. model may be nil when no API key
// is configured; admitted questions then fail with a config error.
func NewService(gate Gate, model llm.Client, logger *logrus.Logger) Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		gate:   gate,
		model:  model,
		logger: logger,
	}
}

func (s *service) Answer(ctx context.Context, req Request) (*Result, error) {
	const op = "AnswerService.Answer"

	switch {
	case req.Question == nil:
		return nil, errors.MissingField(op, FieldQuestion)
	case req.PromptCount == nil:
		return nil, errors.MissingField(op, FieldPromptCount)
	case req.Summary == nil:
		return nil, errors.MissingField(op, FieldSummary)
	}

	count := *req.PromptCount
	logger := s.logger.WithContext(ctx).WithField("prompt_count", count)

	if err := s.gate.Admit(count); err != nil {
		logger.Info("Prompt limit reached")
		return nil, err
	}

	if s.model == nil {
		return nil, errors.Config(op, nil, msgNoClient)
	}

	text, err := s.model.Complete(ctx, llm.UserMessage(prompt.Answer(*req.Summary, *req.Question)))
	if err != nil {
		logger.WithError(err).Error("Model call failed")
		return nil, errors.Model(op, err, "Mistral API Error: "+err.Error())
	}

	return &Result{
		Answer:      text,
		PromptCount: s.gate.Next(count),
	}, nil
}
