package api

import (
	"encoding/json"
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

const msgInvalidJSON = "Invalid JSON."

type SummarizeHandler struct {
	service   summary.Service
	validator *validation.Validator
	logger    *logrus.Logger
}

type summarizeResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

func NewSummarizeHandler(service summary.Service, validator *validation.Validator, logger *logrus.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// HandleSummarize handles POST /summarize
func (h *SummarizeHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	const op = "SummarizeHandler.HandleSummarize"

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		AllowedMethods: []string{http.MethodPost},
		RequireJSON:    true,
		NotJSONMessage: msgInvalidJSON,
	}); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	body, err := readJSONObject(r, h.validator.MaxBodyBytes(), w, msgInvalidJSON)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	var videoURL string
	if raw, ok := body["video_url"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &videoURL); err != nil {
			respondError(w, r, h.logger, errors.InvalidInput(op, err, msgInvalidJSON), nil)
			return
		}
	}

	text, err := h.service.Summarize(r.Context(), videoURL)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, summarizeResponse{Success: true, Summary: text})
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
