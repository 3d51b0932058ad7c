package api

import (
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/services/answer"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

const msgNotJSON = "JSON not available."

type AskHandler struct {
	service   answer.Service
	validator *validation.Validator
	logger    *logrus.Logger
}

type askResponse struct {
	Success     bool   `json:"success"`
	Answer      string `json:"answer"`
	PromptCount int    `json:"prompt_count"`
}

func NewAskHandler(service answer.Service, validator *validation.Validator, logger *logrus.Logger) *AskHandler {
	return &AskHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// HandleAsk handles POST /ask
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	const op = "AskHandler.HandleAsk"

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		AllowedMethods: []string{http.MethodPost},
		RequireJSON:    true,
		NotJSONMessage: msgNotJSON,
	}); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	body, err := readJSONObject(r, h.validator.MaxBodyBytes(), w, msgInvalidJSON)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}
	if body == nil {
		respondError(w, r, h.logger, errors.InvalidInput(op, nil, "Request failed."), nil)
		return
	}

	req, err := answer.DecodeRequest(body)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	result, err := h.service.Answer(r.Context(), *req)
	if err != nil {
		var echo func(*errorResponse)
		if errors.IsKind(err, errors.KindMaxTurnsReached) {
			count := *req.PromptCount
			echo = func(resp *errorResponse) { resp.PromptCount = &count }
		}
		respondError(w, r, h.logger, err, echo)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, askResponse{
		Success:     true,
		Answer:      result.Answer,
		PromptCount: result.PromptCount,
	})
}
