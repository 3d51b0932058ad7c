package api

import (
	"encoding/json"
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/sirupsen/logrus"
)

const msgInternal = "Internal server error"

// errorResponse is the single error envelope of every endpoint.
type errorResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	PromptCount *int   `json:"prompt_count,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *logrus.Logger, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// respondError logs the full error chain and sends only the user-facing
// message. Errors that are not AppErrors become a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error, extra func(*errorResponse)) {
	code := http.StatusInternalServerError
	msg := msgInternal
	fields := logrus.Fields{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}

	if appErr, ok := errors.As(err); ok {
		code = appErr.Code
		msg = appErr.Message
		fields["kind"] = appErr.Kind
		fields["op"] = appErr.Op
	}
	fields["status"] = code

	entry := logger.WithContext(r.Context()).WithFields(fields).WithError(err)
	if code >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Info("Request rejected")
	}

	resp := errorResponse{Success: false, Error: msg}
	if extra != nil {
		extra(&resp)
	}
	respondJSON(w, logger, code, resp)
}

// readJSONObject decodes a JSON object body. Anything else, including an
// empty body, is reported with badJSON.
func readJSONObject(r *http.Request, maxBytes int64, w http.ResponseWriter, badJSON string) (map[string]json.RawMessage, error) {
	const op = "api.readJSONObject"

	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.InvalidInput(op, err, badJSON)
	}
	return body, nil
}
