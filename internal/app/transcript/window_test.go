package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
)

func entries(texts ...string) []model.TranscriptEntry {
	out := make([]model.TranscriptEntry, len(texts))
	for i, text := range texts {
		out[i] = model.TranscriptEntry{Text: text, Start: float64(i * 5), Duration: 5}
	}
	return out
}

func TestNewWindower(t *testing.T) {
	tests := []struct {
		name       string
		windowSize int
		overlap    int
		wantSize   int
		wantErr    bool
	}{
		{name: "plain window", windowSize: 3, overlap: 1, wantSize: 3},
		{name: "no overlap", windowSize: 2, overlap: 0, wantSize: 2},
		{name: "zero size means one entry per segment", windowSize: 0, overlap: 5, wantSize: 1},
		{name: "negative size means one entry per segment", windowSize: -1, overlap: 0, wantSize: 1},
		{name: "overlap equals window size", windowSize: 3, overlap: 3, wantErr: true},
		{name: "overlap above window size", windowSize: 3, overlap: 4, wantErr: true},
		{name: "negative overlap", windowSize: 3, overlap: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindower(tt.windowSize, tt.overlap)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidWindowConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, w.WindowSize())
		})
	}
}

func TestWindowOverlapping(t *testing.T) {
	w, err := NewWindower(2, 1)
	require.NoError(t, err)

	segments := w.Window(entries("A", "B", "C"), "vid1", "Episode 1")
	require.Len(t, segments, 3)

	assert.Equal(t, "A B", segments[0].Text)
	assert.Equal(t, "B C", segments[1].Text)
	assert.Equal(t, "C", segments[2].Text)

	assert.Equal(t, "vid1__0", segments[0].Metadata.SegmentID)
	assert.Equal(t, "vid1__1", segments[1].Metadata.SegmentID)
	assert.Equal(t, "vid1__2", segments[2].Metadata.SegmentID)

	assert.Equal(t, "https://www.youtube.com/watch?v=vid1&t=0s", segments[0].Metadata.SourceURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1&t=5s", segments[1].Metadata.SourceURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1&t=10s", segments[2].Metadata.SourceURL)

	for _, seg := range segments {
		assert.Equal(t, "vid1", seg.Metadata.VideoID)
		assert.Equal(t, "Episode 1", seg.Metadata.Title)
		assert.False(t, seg.HasEmbedding())
	}
}

func TestWindowDegenerate(t *testing.T) {
	// window size 1, overlap 0 must reproduce the transcript line for line
	w, err := NewWindower(1, 0)
	require.NoError(t, err)

	input := entries("one", "two", "three")
	segments := w.Window(input, "vid2", "T")
	require.Len(t, segments, len(input))
	for i, seg := range segments {
		assert.Equal(t, input[i].Text, seg.Text)
	}
}

func TestWindowDeterministic(t *testing.T) {
	w, err := NewWindower(3, 1)
	require.NoError(t, err)

	input := entries("a", "b", "c", "d", "e", "f", "g")
	first := w.Window(input, "vid3", "T")
	second := w.Window(input, "vid3", "T")
	assert.Equal(t, first, second)
}

func TestWindowSegmentIDsUnique(t *testing.T) {
	w, err := NewWindower(4, 2)
	require.NoError(t, err)

	segments := w.Window(entries("a", "b", "c", "d", "e", "f", "g", "h", "i"), "vid4", "T")
	seen := make(map[string]bool)
	for _, seg := range segments {
		assert.False(t, seen[seg.Metadata.SegmentID], "duplicate id %s", seg.Metadata.SegmentID)
		seen[seg.Metadata.SegmentID] = true
	}
}

func TestWindowPartialFinalWindow(t *testing.T) {
	w, err := NewWindower(3, 0)
	require.NoError(t, err)

	segments := w.Window(entries("a", "b", "c", "d"), "vid5", "T")
	require.Len(t, segments, 2)
	assert.Equal(t, "a b c", segments[0].Text)
	assert.Equal(t, "d", segments[1].Text)
}

func TestWindowFractionalTimestamps(t *testing.T) {
	w, err := NewWindower(2, 0)
	require.NoError(t, err)

	segments := w.Window([]model.TranscriptEntry{
		{Text: "a", Start: 1.9, Duration: 2},
		{Text: "b", Start: 3.7, Duration: 2},
		{Text: "c", Start: 5.2, Duration: 2},
	}, "vid6", "T")
	require.Len(t, segments, 2)
	// anchors truncate to whole seconds
	assert.Equal(t, "https://www.youtube.com/watch?v=vid6&t=1s", segments[0].Metadata.SourceURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid6&t=5s", segments[1].Metadata.SourceURL)
}

func TestWindowEmptyTranscript(t *testing.T) {
	w, err := NewWindower(2, 1)
	require.NoError(t, err)
	assert.Empty(t, w.Window(nil, "vid7", "T"))
}
