package answer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nijaru/yt-summary/errors"
	pkgerrors "github.com/pkg/errors"
)

const (
	FieldQuestion    = "question"
	FieldPromptCount = "prompt_count"
	FieldSummary     = "summary"
)

// requiredFields is also the order in which absence is reported.
var requiredFields = []string{FieldQuestion, FieldPromptCount, FieldSummary}

// DecodeRequest builds a Request from a decoded JSON object. All three
// fields must be present before any of them is type-checked. A JSON null
// counts as absent.
func DecodeRequest(body map[string]json.RawMessage) (*Request, error) {
	const op = "answer.DecodeRequest"

	for _, field := range requiredFields {
		raw, ok := body[field]
		if !ok || isNull(raw) {
			return nil, errors.MissingField(op, field)
		}
	}

	question, err := decodeString(op, FieldQuestion, body[FieldQuestion])
	if err != nil {
		return nil, err
	}
	count, err := decodeCount(op, body[FieldPromptCount])
	if err != nil {
		return nil, err
	}
	summary, err := decodeString(op, FieldSummary, body[FieldSummary])
	if err != nil {
		return nil, err
	}

	return &Request{Question: &question, PromptCount: &count, Summary: &summary}, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(op, field string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.InvalidInput(op, err, field+" must be a string.")
	}
	return s, nil
}

// decodeCount accepts an integer, a float (truncated toward zero) or a
// string holding an integer. Values beyond the range of int are clamped so
// a huge count still reaches the turn limit.
func decodeCount(op string, raw json.RawMessage) (int, error) {
	invalid := func(err error) error {
		return errors.InvalidInput(op, err, FieldPromptCount+" must be an integer.")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, invalid(err)
	}

	switch val := v.(type) {
	case json.Number:
		return numberToInt(val, invalid)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil && !pkgerrors.Is(err, strconv.ErrRange) {
			return 0, invalid(err)
		}
		return clampInt64(n), nil
	default:
		return 0, invalid(nil)
	}
}

func numberToInt(num json.Number, invalid func(error) error) (int, error) {
	if n, err := num.Int64(); err == nil {
		return clampInt64(n), nil
	}
	f, err := num.Float64()
	if err != nil && !pkgerrors.Is(err, strconv.ErrRange) {
		return 0, invalid(err)
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, nil
	case f <= math.MinInt:
		return math.MinInt, nil
	}
	return int(f), nil
}

func clampInt64(n int64) int {
	switch {
	case n > math.MaxInt:
		return math.MaxInt
	case n < math.MinInt:
		return math.MinInt
	}
	return int(n)
}
