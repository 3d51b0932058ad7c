package llm

import (
	"context"
	"strings"
	"time"

	mistral "github.com/gage-technologies/mistral-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrMissingAPIKey = errors.New("MISTRAL_API_KEY missing")

type MistralConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// Optional outbound throttle shared by every request. Zero or less
	// leaves calls unthrottled.
	RequestsPerSecond float64
	Burst             int
}

// MistralClient adapts the Mistral SDK to Client. Calls are never retried.
type MistralClient struct {
	model   string
	client  *mistral.MistralClient
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func NewMistralClient(cfg MistralConfig, logger *logrus.Logger) (*MistralClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("mistral model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = mistral.Endpoint
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		if cfg.Burst <= 0 {
			cfg.Burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return &MistralClient{
		model:   cfg.Model,
		client:  mistral.NewMistralClient(cfg.APIKey, strings.TrimRight(cfg.BaseURL, "/"), 0, cfg.Timeout),
		limiter: limiter,
		logger:  logger,
	}, nil
}

func (c *MistralClient) Model() string {
	return c.model
}

type chatResult struct {
	resp *mistral.ChatCompletionResponse
	err  error
}

func (c *MistralClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "waiting for model rate limit")
	}

	chat := make([]mistral.ChatMessage, len(messages))
	for i, m := range messages {
		chat[i] = mistral.ChatMessage{Role: m.Role, Content: m.Content}
	}
	params := mistral.DefaultChatRequestParams

	// The SDK takes no context; its own timeout bounds the abandoned call.
	done := make(chan chatResult, 1)
	start := time.Now()
	go func() {
		resp, err := c.client.Chat(c.model, chat, &params)
		done <- chatResult{resp: resp, err: err}
	}()

	var res chatResult
	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "chat request cancelled")
	case res = <-done:
	}

	if res.err != nil {
		return "", errors.Wrap(res.err, "chat request failed")
	}
	if res.resp == nil || len(res.resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	choice := res.resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", errors.New("model returned empty content")
	}

	c.logger.WithContext(ctx).WithFields(logrus.Fields{
		"model":             c.model,
		"duration":          time.Since(start),
		"prompt_tokens":     res.resp.Usage.PromptTokens,
		"completion_tokens": res.resp.Usage.CompletionTokens,
		"finish_reason":     choice.FinishReason,
	}).Debug("Chat completion received")

	return choice.Message.Content, nil
}
