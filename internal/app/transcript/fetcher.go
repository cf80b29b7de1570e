package transcript

import (
	"context"

	"fitqa/internal/app/model"
)

// Fetcher retrieves the transcript for one video. A failed fetch is local to
// that video: ingestion logs it and moves on to the next source.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]model.TranscriptEntry, error)
}
