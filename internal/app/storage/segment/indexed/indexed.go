package indexed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"

	"fitqa/internal/app/embedding"
	"fitqa/internal/app/embedding/similarity"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
)

// MaxBatchRows is the most rows one INSERT statement may carry: sqlite allows
// 32766 bound parameters and each row binds 6, so 5461 rows. Add chunks larger
// batches into sequential statements of at most this size.
const MaxBatchRows = 5461

const (
	collectionFile = "collection.json"
	segmentsFile   = "segments.db"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS segments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	segment_id TEXT NOT NULL UNIQUE,
	video_id TEXT NOT NULL,
	title TEXT NOT NULL,
	source TEXT NOT NULL,
	text TEXT NOT NULL,
	embedding BLOB NOT NULL
);`

type collectionMeta struct {
	segment.Meta
	CreatedAt time.Time `json:"created_at"`
}

// CollectionStore is the indexed backend: a named collection directory holding
// the segment rows plus an in-memory vector index rebuilt on open and
// maintained incrementally on Add. For the cosine metric the index keeps
// normalized vectors so a query is a dot product per candidate.
type CollectionStore struct {
	dir  string
	db   *sql.DB
	meta segment.Meta
	calc similarity.Calculator

	mu      sync.RWMutex
	ids     []string             // insertion order
	vectors [][]float32          // raw vectors, parallel to ids
	normed  [][]float32          // normalized vectors when metric is cosine
	byID    map[string]int       // segment id -> index position
	rows    []model.Segment      // segment payloads, parallel to ids
}

// Initialize creates a fresh collection at dir. An existing collection is an
// error unless reset is set.
func Initialize(dir string, meta segment.Meta, reset bool) (*CollectionStore, error) {
	metaPath := filepath.Join(dir, collectionFile)
	if _, err := os.Stat(metaPath); err == nil {
		if !reset {
			return nil, errors.WrapSentinel(errors.ErrStoreExists, errors.Newf("collection at %s", dir))
		}
		if err := os.RemoveAll(dir); err != nil {
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

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}

	data, err := json.MarshalIndent(collectionMeta{Meta: meta, CreatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}

	db, err := openDB(filepath.Join(dir, segmentsFile))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}

	store := &CollectionStore{dir: dir, db: db, meta: meta, calc: calc, byID: make(map[string]int)}
	return store, nil
}

// Open reopens an existing collection and rebuilds the in-memory index from
// the persisted rows.
func Open(dir string) (*CollectionStore, error) {
	data, err := os.ReadFile(filepath.Join(dir, collectionFile))
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, errors.Newf("no collection at %s", dir))
	}

	var cm collectionMeta
	if err := json.Unmarshal(data, &cm); err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable,
			fmt.Errorf("corrupt collection metadata: %w", err))
	}

	calc, err := similarity.ForMetric(cm.Metric)
	if err != nil {
		return nil, err
	}

	db, err := openDB(filepath.Join(dir, segmentsFile))
	if err != nil {
		return nil, err
	}

	store := &CollectionStore{dir: dir, db: db, meta: cm.Meta, calc: calc, byID: make(map[string]int)}
	if err := store.rebuildIndex(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", path))
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}
	return db, nil
}

func (s *CollectionStore) rebuildIndex(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT segment_id, video_id, title, source, text, embedding
		FROM segments
		ORDER BY id ASC`)
	if err != nil {
		return errors.WrapSentinel(errors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.vectors = nil
	s.normed = nil
	s.rows = nil
	s.byID = make(map[string]int)

	for rows.Next() {
		var seg model.Segment
		var blob []byte
		err := rows.Scan(&seg.Metadata.SegmentID, &seg.Metadata.VideoID, &seg.Metadata.Title,
			&seg.Metadata.SourceURL, &seg.Text, &blob)
		if err != nil {
			return errors.WrapSentinel(errors.ErrStoreUnavailable, err)
		}
		seg.Embedding, err = embedding.DecodeVector(blob)
		if err != nil {
			return errors.WrapSentinel(errors.ErrStoreUnavailable, err)
		}
		s.indexLocked(seg)
	}
	return rows.Err()
}

// indexLocked inserts or replaces one segment in the in-memory index.
// Callers hold s.mu.
func (s *CollectionStore) indexLocked(seg model.Segment) {
	if pos, ok := s.byID[seg.Metadata.SegmentID]; ok {
		s.vectors[pos] = seg.Embedding
		s.rows[pos] = seg
		if s.normed != nil {
			s.normed[pos] = normalize(seg.Embedding)
		}
		return
	}
	s.byID[seg.Metadata.SegmentID] = len(s.ids)
	s.ids = append(s.ids, seg.Metadata.SegmentID)
	s.vectors = append(s.vectors, seg.Embedding)
	s.rows = append(s.rows, seg)
	if s.cosine() {
		s.normed = append(s.normed, normalize(seg.Embedding))
	}
}

func (s *CollectionStore) cosine() bool {
	return s.meta.Metric == "" || s.meta.Metric == "cosine"
}

// Add upserts segments keyed by segment id, splitting oversized batches into
// sequential sub-batches of MaxBatchRows.
func (s *CollectionStore) Add(ctx context.Context, segments []model.Segment) error {
	for _, seg := range segments {
		if !seg.HasEmbedding() {
			return errors.Newf("segment %s has no embedding attached", seg.Metadata.SegmentID)
		}
		if err := segment.ValidateDimension(s.meta, seg.Embedding); err != nil {
			return err
		}
	}

	for _, batch := range lo.Chunk(segments, MaxBatchRows) {
		if err := s.addBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (s *CollectionStore) addBatch(ctx context.Context, batch []model.Segment) error {
	if len(batch) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO segments (segment_id, video_id, title, source, text, embedding) VALUES `)
	args := make([]interface{}, 0, len(batch)*6)
	for i, seg := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args,
			seg.Metadata.SegmentID,
			seg.Metadata.VideoID,
			seg.Metadata.Title,
			seg.Metadata.SourceURL,
			seg.Text,
			embedding.EncodeVector(seg.Embedding),
		)
	}
	sb.WriteString(` ON CONFLICT(segment_id) DO UPDATE SET
		video_id = excluded.video_id,
		title = excluded.title,
		source = excluded.source,
		text = excluded.text,
		embedding = excluded.embedding`)

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return errors.WrapSentinel(errors.ErrInsertFailed, err)
	}

	s.mu.Lock()
	for _, seg := range batch {
		s.indexLocked(seg)
	}
	s.mu.Unlock()
	return nil
}

// Query ranks against the in-memory index. For cosine the query vector is
// normalized once and scored with dot products, which equals cosine
// similarity over the normalized index.
func (s *CollectionStore) Query(ctx context.Context, queryEmbedding []float32, k int) ([]model.ScoredSegment, error) {
	if err := segment.ValidateDimension(s.meta, queryEmbedding); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.ids) == 0 {
		return []model.ScoredSegment{}, nil
	}

	scored := make([]model.ScoredSegment, 0, len(s.ids))
	if s.cosine() {
		q := normalize(queryEmbedding)
		for i := range s.normed {
			scored = append(scored, model.ScoredSegment{Segment: s.rows[i], Score: dot(q, s.normed[i])})
		}
	} else {
		for i := range s.vectors {
			score, err := s.calc.Score(queryEmbedding, s.vectors[i])
			if err != nil {
				return nil, err
			}
			scored = append(scored, model.ScoredSegment{Segment: s.rows[i], Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	out := make([]model.ScoredSegment, k)
	copy(out, scored[:k])
	return out, nil
}

// Count returns the number of indexed segments.
func (s *CollectionStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids), nil
}

// All returns every segment in insertion order.
func (s *CollectionStore) All(ctx context.Context) ([]model.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Segment, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Meta returns the persisted collection metadata.
func (s *CollectionStore) Meta() segment.Meta {
	return s.meta
}

// Close closes the underlying database handle.
func (s *CollectionStore) Close() error {
	return s.db.Close()
}

func normalize(vec []float32) []float32 {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return make([]float32, len(vec))
	}
	norm := float32(math.Sqrt(float64(sum)))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
