package summary

import (
	"context"
)

type Service interface {
	// Summarize fetches the video's captions and asks the model for a summary.
	Summarize(ctx context.Context, videoURL string) (string, error)
}

// TranscriptFetcher resolves a video id to flattened caption text.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}
