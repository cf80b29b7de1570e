package etl

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitqa/internal/app/embedding/provider"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/app/storage/segment/sqlite"
	"fitqa/internal/app/transcript"
)

// fakeFetcher serves canned transcripts and fails for unknown ids.
type fakeFetcher struct {
	transcripts map[string][]model.TranscriptEntry
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) ([]model.TranscriptEntry, error) {
	entries, ok := f.transcripts[videoID]
	if !ok {
		return nil, errors.WrapSentinel(errors.ErrTranscriptUnavailable, errors.Newf("video %s", videoID))
	}
	return entries, nil
}

func transcriptOf(texts ...string) []model.TranscriptEntry {
	entries := make([]model.TranscriptEntry, len(texts))
	for i, text := range texts {
		entries[i] = model.TranscriptEntry{Text: text, Start: float64(i * 4), Duration: 4}
	}
	return entries
}

func writeSources(t *testing.T, dir string, sources []model.VideoSource) string {
	t.Helper()
	data, err := json.Marshal(sources)
	require.NoError(t, err)
	path := filepath.Join(dir, "videos.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestPipeline(t *testing.T, fetcher transcript.Fetcher) *Pipeline {
	t.Helper()
	windower, err := transcript.NewWindower(2, 1)
	require.NoError(t, err)
	return NewPipeline(fetcher, provider.NewMockProvider(64), windower, nil, nil)
}

func newTestStore(t *testing.T, dir string) segment.Store {
	t.Helper()
	store, err := sqlite.Initialize(filepath.Join(dir, "segments.db"), segment.Meta{
		Name:      "fitness_videos",
		Metric:    "cosine",
		Dimension: 64,
		Provider:  "mock-model",
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunIngestsAllVideos(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{transcripts: map[string][]model.TranscriptEntry{
		"vid1": transcriptOf("a", "b", "c"),
		"vid2": transcriptOf("d", "e"),
	}}
	pipeline := newTestPipeline(t, fetcher)
	store := newTestStore(t, dir)
	sourcesPath := writeSources(t, dir, []model.VideoSource{
		{ID: "vid1", Title: "Episode 1"},
		{ID: "vid2", Title: "Episode 2"},
	})

	record, err := pipeline.Run(context.Background(), sourcesPath, filepath.Join(dir, "segments.db"), store)
	require.NoError(t, err)

	// window 2 overlap 1: vid1 -> 3 segments, vid2 -> 2
	assert.Equal(t, 5, record.Segments)
	assert.NotEmpty(t, record.RunID)
	assert.Equal(t, 2, record.WindowSize)
	assert.Equal(t, 1, record.Overlap)
	assert.False(t, record.LoadedAt.IsZero())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// every stored segment carries an embedding
	all, err := store.All(context.Background())
	require.NoError(t, err)
	for _, seg := range all {
		assert.True(t, seg.HasEmbedding(), "segment %s", seg.Metadata.SegmentID)
	}
}

func TestRunSkipsFailedVideos(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{transcripts: map[string][]model.TranscriptEntry{
		"vid1": transcriptOf("a", "b"),
	}}
	pipeline := newTestPipeline(t, fetcher)
	store := newTestStore(t, dir)
	sourcesPath := writeSources(t, dir, []model.VideoSource{
		{ID: "vid1", Title: "Good"},
		{ID: "gone", Title: "No transcript"},
	})

	record, err := pipeline.Run(context.Background(), sourcesPath, filepath.Join(dir, "segments.db"), store)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Segments)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunRerunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{transcripts: map[string][]model.TranscriptEntry{
		"vid1": transcriptOf("a", "b", "c"),
	}}
	pipeline := newTestPipeline(t, fetcher)
	store := newTestStore(t, dir)
	sourcesPath := writeSources(t, dir, []model.VideoSource{{ID: "vid1", Title: "T"}})

	ctx := context.Background()
	storePath := filepath.Join(dir, "segments.db")
	_, err := pipeline.Run(ctx, sourcesPath, storePath, store)
	require.NoError(t, err)
	_, err = pipeline.Run(ctx, sourcesPath, storePath, store)
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunMissingSources(t *testing.T) {
	dir := t.TempDir()
	pipeline := newTestPipeline(t, &fakeFetcher{})
	store := newTestStore(t, dir)

	_, err := pipeline.Run(context.Background(), filepath.Join(dir, "missing.json"), "", store)
	assert.Error(t, err)
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	record := &model.IngestRecord{RunID: "run-1", Segments: 7, WindowSize: 2, Overlap: 1}
	path := RecordPath(filepath.Join(dir, "videos.db"))

	require.NoError(t, WriteRecord(record, path))
	assert.Equal(t, filepath.Join(dir, "logs", "videos_load_log.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.IngestRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *record, got)
}
