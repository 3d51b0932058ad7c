package errors

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an AppError independently of its HTTP code.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidURL         Kind = "invalid_url"
	KindCaptionUnavailable Kind = "caption_unavailable"
	KindCaptionFetch       Kind = "caption_fetch"
	KindEmptyTranscript    Kind = "empty_transcript"
	KindMissingField       Kind = "missing_field"
	KindMaxTurnsReached    Kind = "max_turns_reached"
	KindModel              Kind = "model"
	KindConfig             Kind = "config"
	KindInternal           Kind = "internal"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// E builds an AppError of the given kind. The HTTP code follows the kind.
func E(kind Kind, op string, err error, message string) *AppError {
	return &AppError{
		Code:    codeFor(kind),
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func codeFor(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindInvalidURL, KindMissingField, KindMaxTurnsReached:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(KindInvalidInput, op, err, message)
}

func InvalidURL(op string, message string) *AppError {
	return E(KindInvalidURL, op, nil, message)
}

func CaptionUnavailable(op string, message string) *AppError {
	return E(KindCaptionUnavailable, op, nil, message)
}

func CaptionFetch(op string, err error, message string) *AppError {
	return E(KindCaptionFetch, op, err, message)
}

func EmptyTranscript(op string) *AppError {
	return E(KindEmptyTranscript, op, nil, "Transcript extracted but empty")
}

func MissingField(op string, field string) *AppError {
	return E(KindMissingField, op, nil, field+" is required.")
}

func MaxTurnsReached(op string) *AppError {
	return E(KindMaxTurnsReached, op, nil, "Max prompt limit reached")
}

func Model(op string, err error, message string) *AppError {
	return E(KindModel, op, err, message)
}

func Config(op string, err error, message string) *AppError {
	return E(KindConfig, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return E(KindInternal, op, err, message)
}

// As returns the outermost AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether any AppError in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var appErr *AppError
		if !pkgerrors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}
