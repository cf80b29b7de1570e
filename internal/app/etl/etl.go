package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"fitqa/internal/app/embedding/provider"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/metrics"
	"fitqa/internal/app/model"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/app/transcript"
)

// Texts per embedding call. Keeps request bodies bounded; sub-batches run
// sequentially so insertion order stays deterministic.
const embedBatchSize = 128

// Pipeline ingests a list of videos into a segment store: fetch transcript,
// window, embed, add. A failed transcript fetch skips that video and the run
// continues; every segment is embedded before it reaches the store.
type Pipeline struct {
	fetcher  transcript.Fetcher
	provider provider.EmbeddingProvider
	windower *transcript.Windower
	logger   *zap.Logger
	progress *ProgressManager
}

// NewPipeline assembles an ingestion pipeline.
func NewPipeline(fetcher transcript.Fetcher, p provider.EmbeddingProvider, windower *transcript.Windower, logger *zap.Logger, progress *ProgressManager) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = NewProgressManager(ProgressConfig{Enabled: false})
	}
	return &Pipeline{fetcher: fetcher, provider: p, windower: windower, logger: logger, progress: progress}
}

// Provider exposes the pipeline's embedding provider so callers can size a
// new store to its dimension.
func (p *Pipeline) Provider() provider.EmbeddingProvider {
	return p.provider
}

// ReadSources loads the video list (id + title pairs) from a JSON file.
func ReadSources(path string) ([]model.VideoSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sources %s", path)
	}
	var sources []model.VideoSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, errors.Wrapf(err, "failed to parse sources %s", path)
	}
	return sources, nil
}

// Run ingests every source video into the store and returns the run record.
// Per-video fetch failures are logged and skipped; they never fail the batch.
func (p *Pipeline) Run(ctx context.Context, sourcesPath, storePath string, store segment.Store) (*model.IngestRecord, error) {
	sources, err := ReadSources(sourcesPath)
	if err != nil {
		return nil, err
	}

	bar := p.progress.CreateBar(len(sources), "ingesting")
	totalSegments := 0

	for _, video := range sources {
		segments, err := p.ingestVideo(ctx, video, store)
		if err != nil {
			// TranscriptUnavailable is local to one video
			p.logger.Warn("skipping video",
				zap.String("video_id", video.ID),
				zap.Error(err))
			bar.Increment()
			continue
		}
		totalSegments += segments
		bar.Increment()
	}
	p.progress.Wait()

	record := &model.IngestRecord{
		RunID:      uuid.NewString(),
		SourcePath: sourcesPath,
		StorePath:  storePath,
		WindowSize: p.windower.WindowSize(),
		Overlap:    p.windower.Overlap(),
		Segments:   totalSegments,
		LoadedAt:   time.Now().UTC(),
	}

	p.logger.Info("ingestion complete",
		zap.String("run_id", record.RunID),
		zap.Int("videos", len(sources)),
		zap.Int("segments", totalSegments))

	return record, nil
}

func (p *Pipeline) ingestVideo(ctx context.Context, video model.VideoSource, store segment.Store) (int, error) {
	entries, err := p.fetcher.Fetch(ctx, video.ID)
	if err != nil {
		return 0, err
	}
	p.logger.Info("transcript fetched",
		zap.String("video_id", video.ID),
		zap.Int("entries", len(entries)))

	segments := p.windower.Window(entries, video.ID, video.Title)
	if len(segments) == 0 {
		return 0, nil
	}

	if err := p.embedSegments(ctx, segments); err != nil {
		return 0, err
	}

	if err := store.Add(ctx, segments); err != nil {
		return 0, err
	}

	metrics.SegmentsIngested.Add(float64(len(segments)))
	return len(segments), nil
}

// embedSegments attaches embeddings in place, batching provider calls.
func (p *Pipeline) embedSegments(ctx context.Context, segments []model.Segment) error {
	providerName := p.provider.Info().Name

	for _, batch := range lo.Chunk(segments, embedBatchSize) {
		texts := lo.Map(batch, func(seg model.Segment, _ int) string { return seg.Text })

		vectors, err := p.provider.Embed(ctx, texts)
		if err != nil {
			metrics.EmbeddingRequests.WithLabelValues(providerName, "error").Inc()
			return err
		}
		metrics.EmbeddingRequests.WithLabelValues(providerName, "ok").Inc()

		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}
	return nil
}

// WriteRecord persists the ingestion log record as JSON at path.
func WriteRecord(record *model.IngestRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RecordPath derives the log location for a store path, e.g.
// data/videos.db -> data/logs/videos_load_log.json.
func RecordPath(storePath string) string {
	base := filepath.Base(storePath)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return filepath.Join(filepath.Dir(storePath), "logs", fmt.Sprintf("%s_load_log.json", base))
}
