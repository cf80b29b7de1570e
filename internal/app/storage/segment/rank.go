package segment

import (
	"sort"

	"fitqa/internal/app/embedding/similarity"
	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
)

// TopK is the reference ranking used by the full-scan backends: score every
// candidate against the query, sort descending, take k. The sort is stable and
// candidates arrive in insertion order, so equal scores keep that order.
func TopK(candidates []model.Segment, query []float32, calc similarity.Calculator, k int) ([]model.ScoredSegment, error) {
	if k <= 0 || len(candidates) == 0 {
		return []model.ScoredSegment{}, nil
	}

	scored := make([]model.ScoredSegment, 0, len(candidates))
	for _, cand := range candidates {
		score, err := calc.Score(query, cand.Embedding)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring segment %s", cand.Metadata.SegmentID)
		}
		scored = append(scored, model.ScoredSegment{Segment: cand, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// ValidateDimension rejects query or segment vectors that do not match the
// store's embedding space. Failing fast here beats a silent zero-similarity.
func ValidateDimension(meta Meta, vec []float32) error {
	if len(vec) != meta.Dimension {
		return errors.WrapSentinel(errors.ErrDimensionMismatch,
			errors.Newf("store %s holds %d-dimensional vectors, got %d", meta.Name, meta.Dimension, len(vec)))
	}
	return nil
}
