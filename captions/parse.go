package captions

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ParseDocument decodes a json3 caption payload.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid caption payload")
	}
	return &doc, nil
}

// Flatten joins the text of every segment, in order, with single spaces.
func Flatten(doc *Document) string {
	if doc == nil {
		return ""
	}

	var parts []string
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			if seg.UTF8 != nil {
				parts = append(parts, *seg.UTF8)
			}
		}
	}
	return strings.Join(parts, " ")
}
