package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider(64)

	first, err := p.Embed(context.Background(), []string{"how much protein per day"})
	require.NoError(t, err)
	second, err := p.Embed(context.Background(), []string{"how much protein per day"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Len(t, first[0], 64)
}

func TestMockProviderDistinctTexts(t *testing.T) {
	p := NewMockProvider(32)

	vectors, err := p.Embed(context.Background(), []string{"zone 2 cardio", "cold exposure"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotEqual(t, vectors[0], vectors[1])
}

func TestMockProviderRange(t *testing.T) {
	p := NewMockProvider(128)

	vectors, err := p.Embed(context.Background(), []string{"creatine"})
	require.NoError(t, err)
	for _, v := range vectors[0] {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestMockProviderEmptyText(t *testing.T) {
	p := NewMockProvider(16)

	_, err := p.Embed(context.Background(), []string{"  "})
	assert.Error(t, err)
}

func TestMockProviderInfo(t *testing.T) {
	info := NewMockProvider(64).Info()
	assert.Equal(t, "mock", info.Name)
	assert.Equal(t, 64, info.Dimension)
}
