package similarity

import (
	"math"

	"fitqa/internal/app/errors"
)

// Calculator scores a pair of equal-dimension vectors. Higher scores must mean
// more similar so that stores can rank descending regardless of metric.
type Calculator interface {
	// Name is the metric name persisted in store metadata.
	Name() string
	Score(a, b []float32) (float32, error)
}

// ForMetric resolves a persisted metric name to its calculator.
func ForMetric(name string) (Calculator, error) {
	switch name {
	case "", "cosine":
		return NewCosineCalculator(), nil
	case "l2":
		return NewEuclideanCalculator(), nil
	default:
		return nil, errors.WrapSentinel(errors.ErrUnknownMetric, errors.Newf("metric %q", name))
	}
}

// CosineCalculator scores by cosine similarity, range [-1, 1].
type CosineCalculator struct{}

// NewCosineCalculator creates a cosine similarity calculator.
func NewCosineCalculator() *CosineCalculator {
	return &CosineCalculator{}
}

func (c *CosineCalculator) Name() string { return "cosine" }

// Score computes cosine similarity between two vectors.
func (c *CosineCalculator) Score(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, errors.WrapSentinel(errors.ErrDimensionMismatch,
			errors.Newf("got %d and %d", len(a), len(b)))
	}

	if len(a) == 0 {
		return 0, nil
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	// Zero vectors have no direction
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) *
		float32(math.Sqrt(float64(normB)))), nil
}

// EuclideanCalculator scores by negated Euclidean distance so that closer
// vectors still rank higher.
type EuclideanCalculator struct{}

// NewEuclideanCalculator creates a Euclidean distance calculator.
func NewEuclideanCalculator() *EuclideanCalculator {
	return &EuclideanCalculator{}
}

func (e *EuclideanCalculator) Name() string { return "l2" }

func (e *EuclideanCalculator) Score(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, errors.WrapSentinel(errors.ErrDimensionMismatch,
			errors.Newf("got %d and %d", len(a), len(b)))
	}

	if len(a) == 0 {
		return 0, nil
	}

	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return -float32(math.Sqrt(float64(sum))), nil
}
