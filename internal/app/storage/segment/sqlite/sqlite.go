package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"

	"fitqa/internal/app/embedding"
	"fitqa/internal/app/embedding/similarity"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
)

// Rows inserted per transaction during bulk Add. The flat backend has no hard
// per-call cap; batching just bounds transaction size.
const insertBatchSize = 1000

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS segments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	segment_id TEXT NOT NULL UNIQUE,
	video_id TEXT NOT NULL,
	title TEXT NOT NULL,
	source TEXT NOT NULL,
	text TEXT NOT NULL,
	embedding BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS store_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// FlatStore is the brute-force backend: a single sqlite table scanned in full
// at query time. It is the correctness oracle the indexed backend is tested
// against.
type FlatStore struct {
	db   *sql.DB
	meta segment.Meta
	calc similarity.Calculator
}

// Initialize creates a fresh store at path. An existing file is an error
// unless reset is set, in which case it is replaced.
func Initialize(path string, meta segment.Meta, reset bool) (*FlatStore, error) {
	if _, err := os.Stat(path); err == nil {
		if !reset {
			return nil, errors.WrapSentinel(errors.ErrStoreExists, errors.Newf("path %s", path))
		}
		if err := os.Remove(path); err != nil {
			return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
		}
	}

	calc, err := similarity.ForMetric(meta.Metric)
	if err != nil {
		return nil, err
	}
	if meta.Dimension <= 0 {
		return nil, errors.Newf("store dimension must be positive, got %d", meta.Dimension)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, fmt.Errorf("failed to create tables: %w", err))
	}

	if err := writeMeta(db, meta); err != nil {
		db.Close()
		return nil, err
	}

	return &FlatStore{db: db, meta: meta, calc: calc}, nil
}

// Open reopens an existing store for querying. Metric and dimension come from
// the store's own metadata.
func Open(path string) (*FlatStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, errors.Newf("no store at %s", path))
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	meta, err := readMeta(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	calc, err := similarity.ForMetric(meta.Metric)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &FlatStore{db: db, meta: meta, calc: calc}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", path))
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, fmt.Errorf("failed to open database: %w", err))
	}
	return db, nil
}

// Add inserts segments with INSERT OR IGNORE semantics keyed by segment_id,
// batched into sequential transactions.
func (s *FlatStore) Add(ctx context.Context, segments []model.Segment) error {
	for _, seg := range segments {
		if !seg.HasEmbedding() {
			return errors.Newf("segment %s has no embedding attached", seg.Metadata.SegmentID)
		}
		if err := segment.ValidateDimension(s.meta, seg.Embedding); err != nil {
			return err
		}
	}

	for _, batch := range lo.Chunk(segments, insertBatchSize) {
		if err := s.addBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (s *FlatStore) addBatch(ctx context.Context, batch []model.Segment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapSentinel(errors.ErrInsertFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO segments
		(segment_id, video_id, title, source, text, embedding) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.WrapSentinel(errors.ErrInsertFailed, err)
	}
	defer stmt.Close()

	for _, seg := range batch {
		_, err := stmt.ExecContext(ctx,
			seg.Metadata.SegmentID,
			seg.Metadata.VideoID,
			seg.Metadata.Title,
			seg.Metadata.SourceURL,
			seg.Text,
			embedding.EncodeVector(seg.Embedding),
		)
		if err != nil {
			tx.Rollback()
			return errors.WrapSentinel(errors.ErrInsertFailed,
				fmt.Errorf("segment %s: %w", seg.Metadata.SegmentID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapSentinel(errors.ErrInsertFailed, err)
	}
	return nil
}

// Query scans every stored vector and ranks by the configured metric.
func (s *FlatStore) Query(ctx context.Context, queryEmbedding []float32, k int) ([]model.ScoredSegment, error) {
	if err := segment.ValidateDimension(s.meta, queryEmbedding); err != nil {
		return nil, err
	}

	candidates, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	return segment.TopK(candidates, queryEmbedding, s.calc, k)
}

// Count returns the stored segment count.
func (s *FlatStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM segments`).Scan(&count)
	if err != nil {
		return 0, errors.WrapSentinel(errors.ErrQueryFailed, err)
	}
	return count, nil
}

// All returns every segment in insertion order.
func (s *FlatStore) All(ctx context.Context) ([]model.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT segment_id, video_id, title, source, text, embedding
		FROM segments
		ORDER BY id ASC`)
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrQueryFailed, err)
	}
	defer rows.Close()

	segments := make([]model.Segment, 0)
	for rows.Next() {
		var seg model.Segment
		var blob []byte
		err := rows.Scan(&seg.Metadata.SegmentID, &seg.Metadata.VideoID, &seg.Metadata.Title,
			&seg.Metadata.SourceURL, &seg.Text, &blob)
		if err != nil {
			return nil, errors.WrapSentinel(errors.ErrQueryFailed, fmt.Errorf("db scan failed: %w", err))
		}
		seg.Embedding, err = embedding.DecodeVector(blob)
		if err != nil {
			return nil, errors.WrapSentinel(errors.ErrQueryFailed,
				fmt.Errorf("segment %s: %w", seg.Metadata.SegmentID, err))
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapSentinel(errors.ErrQueryFailed, err)
	}
	return segments, nil
}

// Meta returns the persisted store metadata.
func (s *FlatStore) Meta() segment.Meta {
	return s.meta
}

// Close closes the database handle.
func (s *FlatStore) Close() error {
	return s.db.Close()
}

func writeMeta(db *sql.DB, meta segment.Meta) error {
	pairs := map[string]string{
		"name":      meta.Name,
		"metric":    meta.Metric,
		"dimension": strconv.Itoa(meta.Dimension),
		"provider":  meta.Provider,
	}
	for key, value := range pairs {
		if _, err := db.Exec(`INSERT OR REPLACE INTO store_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return errors.WrapSentinel(errors.ErrStoreUnavailable, fmt.Errorf("failed to write meta: %w", err))
		}
	}
	return nil
}

func readMeta(db *sql.DB) (segment.Meta, error) {
	rows, err := db.Query(`SELECT key, value FROM store_meta`)
	if err != nil {
		return segment.Meta{}, errors.WrapSentinel(errors.ErrStoreUnavailable,
			fmt.Errorf("failed to read meta (not a segment store?): %w", err))
	}
	defer rows.Close()

	var meta segment.Meta
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return segment.Meta{}, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
		}
		switch key {
		case "name":
			meta.Name = value
		case "metric":
			meta.Metric = value
		case "dimension":
			meta.Dimension, err = strconv.Atoi(value)
			if err != nil {
				return segment.Meta{}, errors.WrapSentinel(errors.ErrStoreUnavailable,
					fmt.Errorf("bad dimension %q: %w", value, err))
			}
		case "provider":
			meta.Provider = value
		}
	}
	if err := rows.Err(); err != nil {
		return segment.Meta{}, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}
	if meta.Dimension <= 0 {
		return segment.Meta{}, errors.WrapSentinel(errors.ErrStoreUnavailable,
			errors.New("store metadata missing dimension"))
	}
	return meta, nil
}
