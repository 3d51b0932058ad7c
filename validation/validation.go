package validation

import (
	"fmt"
	"mime"
	"net/http"
	"regexp"

	"github.com/nijaru/yt-summary/errors"
)

// videoIDPattern matches the id after a watch query parameter or a
// youtu.be short link.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([\w-]+)`)

// ExtractVideoID returns the first video id found in rawURL.
func ExtractVideoID(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

type Validator struct {
	maxBodyBytes int64
}

func NewValidator(maxBodyBytes int64) *Validator {
	return &Validator{maxBodyBytes: maxBodyBytes}
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	AllowedMethods []string
	RequireJSON    bool
	// NotJSONMessage replaces the default message when RequireJSON fails.
	NotJSONMessage string
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	// Method validation
	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	// Content type validation
	if opts.RequireJSON && !isJSON(r) {
		msg := opts.NotJSONMessage
		if msg == "" {
			msg = "Content-Type must be application/json"
		}
		return errors.InvalidInput(op, nil, msg)
	}

	// Content length validation
	if v.maxBodyBytes > 0 && r.ContentLength > v.maxBodyBytes {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}

// MaxBodyBytes is the body limit handlers pass to http.MaxBytesReader.
func (v *Validator) MaxBodyBytes() int64 {
	return v.maxBodyBytes
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
