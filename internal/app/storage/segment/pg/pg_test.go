package pg

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitqa/internal/app/embedding"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
)

const testDimension = 4

func testMeta() segment.Meta {
	return segment.Meta{
		Name:      "fitness_videos",
		Metric:    "cosine",
		Dimension: testDimension,
		Provider:  "mock-model",
	}
}

func testVector(seed int) []float32 {
	vec := make([]float32, testDimension)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(seed*31 + i + 1)))
	}
	return vec
}

func testSegment(seed int) model.Segment {
	videoID := fmt.Sprintf("vid%d", seed)
	return model.Segment{
		Text: fmt.Sprintf("segment text %d", seed),
		Metadata: model.SegmentMetadata{
			VideoID:   videoID,
			SegmentID: fmt.Sprintf("%s__0", videoID),
			Title:     "Episode " + videoID,
			SourceURL: fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=0s", videoID),
		},
		Embedding: testVector(seed),
	}
}

func segmentRows(segments ...model.Segment) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"segment_id", "video_id", "title", "source", "text", "embedding"})
	for _, seg := range segments {
		rows.AddRow(seg.Metadata.SegmentID, seg.Metadata.VideoID, seg.Metadata.Title,
			seg.Metadata.SourceURL, seg.Text, embedding.EncodeVector(seg.Embedding))
	}
	return rows
}

func TestAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())
	segments := []model.Segment{testSegment(1), testSegment(2)}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO segments`)
	for _, seg := range segments {
		prep.ExpectExec().
			WithArgs(seg.Metadata.SegmentID, seg.Metadata.VideoID, seg.Metadata.Title,
				seg.Metadata.SourceURL, seg.Text, embedding.EncodeVector(seg.Embedding)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.Add(context.Background(), segments))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())
	seg := testSegment(1)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO segments`)
	prep.ExpectExec().WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	err = store.Add(context.Background(), []model.Segment{seg})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInsertFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRejectsWrongDimension(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())
	seg := testSegment(1)
	seg.Embedding = []float32{1, 2}

	err = store.Add(context.Background(), []model.Segment{seg})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestQueryRanksDescending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())
	segments := []model.Segment{testSegment(1), testSegment(2), testSegment(3)}

	mock.ExpectQuery(`SELECT segment_id, video_id, title, source, text, embedding`).
		WillReturnRows(segmentRows(segments...))

	results, err := store.Query(context.Background(), segments[1].Embedding, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, segments[1].Metadata.SegmentID, results[0].Segment.Metadata.SegmentID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryEmptyTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())

	mock.ExpectQuery(`SELECT segment_id, video_id, title, source, text, embedding`).
		WillReturnRows(segmentRows())

	results, err := store.Query(context.Background(), testVector(0), 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, testMeta())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM segments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
