package sqlite

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
)

const testDimension = 8

func testMeta() segment.Meta {
	return segment.Meta{
		Name:      "fitness_videos",
		Metric:    "cosine",
		Dimension: testDimension,
		Provider:  "mock-model",
	}
}

// testVector derives a distinct, non-collinear vector from a seed.
func testVector(seed int) []float32 {
	vec := make([]float32, testDimension)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(seed*31 + i + 1)))
	}
	return vec
}

func testSegment(videoID string, index int) model.Segment {
	return model.Segment{
		Text: "segment text " + videoID,
		Metadata: model.SegmentMetadata{
			VideoID:   videoID,
			SegmentID: fmt.Sprintf("%s__%d", videoID, index),
			Title:     "Episode " + videoID,
			SourceURL: "https://www.youtube.com/watch?v=" + videoID + "&t=0s",
		},
		Embedding: testVector(index),
	}
}

func newTestStore(t *testing.T) *FlatStore {
	t.Helper()
	store, err := Initialize(filepath.Join(t.TempDir(), "segments.db"), testMeta(), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitializeRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.db")

	store, err := Initialize(path, testMeta(), false)
	require.NoError(t, err)
	store.Close()

	_, err = Initialize(path, testMeta(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStoreExists)

	store, err = Initialize(path, testMeta(), true)
	require.NoError(t, err)
	store.Close()
}

func TestAddIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	segments := []model.Segment{testSegment("vid1", 0), testSegment("vid1", 1)}
	require.NoError(t, store.Add(ctx, segments))
	require.NoError(t, store.Add(ctx, segments))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddRejectsMissingEmbedding(t *testing.T) {
	store := newTestStore(t)

	seg := testSegment("vid1", 0)
	seg.Embedding = nil
	err := store.Add(context.Background(), []model.Segment{seg})
	assert.Error(t, err)
}

func TestAddRejectsWrongDimension(t *testing.T) {
	store := newTestStore(t)

	seg := testSegment("vid1", 0)
	seg.Embedding = []float32{1, 2, 3}
	err := store.Add(context.Background(), []model.Segment{seg})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestQuerySelfRetrieval(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	segments := []model.Segment{
		testSegment("vid1", 0),
		testSegment("vid2", 1),
		testSegment("vid3", 2),
	}
	require.NoError(t, store.Add(ctx, segments))

	results, err := store.Query(ctx, segments[1].Embedding, 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, segments[1].Metadata.SegmentID, results[0].Segment.Metadata.SegmentID)
	assert.GreaterOrEqual(t, results[0].Score, float32(0.999))

	// descending order
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestQueryBoundsK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []model.Segment{testSegment("vid1", 0), testSegment("vid2", 1)}))

	results, err := store.Query(ctx, testVector(0), 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = store.Query(ctx, testVector(0), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryEmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Query(context.Background(), testVector(0), 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestQueryWrongDimension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Query(context.Background(), []float32{1, 2}, 5)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestOpenRoundTripsMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.db")
	ctx := context.Background()

	store, err := Initialize(path, testMeta(), false)
	require.NoError(t, err)
	seg := testSegment("vid1", 0)
	require.NoError(t, store.Add(ctx, []model.Segment{seg}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, testMeta(), reopened.Meta())

	all, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, seg.Metadata, all[0].Metadata)
	assert.Equal(t, seg.Text, all[0].Text)
	assert.Equal(t, seg.Embedding, all[0].Embedding)
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, errors.ErrStoreUnavailable)
}
