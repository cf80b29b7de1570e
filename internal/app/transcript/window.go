package transcript

import (
	"fmt"
	"strings"

	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
)

const watchURLBase = "https://www.youtube.com/watch?v=%s&t=%ds"

// Windower groups consecutive transcript entries into overlapping segments.
// Window parameters are validated once at construction; a zero windowSize means
// one segment per transcript line.
type Windower struct {
	windowSize int
	overlap    int
}

// NewWindower creates a windower. Stride is windowSize-overlap and must stay
// positive, so overlap >= windowSize is rejected as a configuration error
// rather than clamped.
func NewWindower(windowSize, overlap int) (*Windower, error) {
	if windowSize <= 0 {
		windowSize = 1
		overlap = 0
	}
	if overlap < 0 {
		return nil, errors.WrapSentinel(errors.ErrInvalidWindowConfig,
			fmt.Errorf("overlap %d must not be negative", overlap))
	}
	if overlap >= windowSize {
		return nil, errors.WrapSentinel(errors.ErrInvalidWindowConfig,
			fmt.Errorf("overlap %d must be strictly less than window size %d", overlap, windowSize))
	}
	return &Windower{windowSize: windowSize, overlap: overlap}, nil
}

// WindowSize returns the effective window size.
func (w *Windower) WindowSize() int { return w.windowSize }

// Overlap returns the effective overlap.
func (w *Windower) Overlap() int { return w.overlap }

// Window splits a transcript into segments without embeddings attached.
// Segment ids are derived from the window's starting index, so windowing the
// same transcript with the same parameters reproduces identical segments.
func (w *Windower) Window(entries []model.TranscriptEntry, videoID, title string) []model.Segment {
	if len(entries) == 0 {
		return nil
	}

	stride := w.windowSize - w.overlap
	segments := make([]model.Segment, 0, (len(entries)+stride-1)/stride)

	for i := 0; i < len(entries); i += stride {
		end := i + w.windowSize
		if end > len(entries) {
			end = len(entries)
		}
		window := entries[i:end]

		texts := make([]string, len(window))
		for j, entry := range window {
			texts[j] = entry.Text
		}

		// Timestamp anchor is the first entry's start, in whole seconds.
		start := int(window[0].Start)

		segments = append(segments, model.Segment{
			Text: strings.Join(texts, " "),
			Metadata: model.SegmentMetadata{
				VideoID:   videoID,
				SegmentID: fmt.Sprintf("%s__%d", videoID, i),
				Title:     title,
				SourceURL: fmt.Sprintf(watchURLBase, videoID, start),
			},
		})
	}

	return segments
}
