package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewLapse(t *testing.T) {
	today := at("2024-03-10", 12)

	s, err := Review(10, 2.0, 2, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Interval)
	assert.Equal(t, 2.0, s.EaseFactor)
	assert.Equal(t, "2024-03-11", s.NextReviewDate)
}

func TestReviewFirstSuccess(t *testing.T) {
	today := at("2024-03-10", 12)

	tests := []struct {
		quality  int
		interval int
	}{
		{QualityEasy, 6},
		{QualityGood, 6},
		{QualityHard, 3},
	}
	for _, tt := range tests {
		s, err := Review(1, 2.5, tt.quality, today)
		require.NoError(t, err)
		assert.Equal(t, tt.interval, s.Interval, "quality %d", tt.quality)
	}
}

func TestReviewGrowth(t *testing.T) {
	s, err := Review(6, 2.5, QualityGood, at("2024-03-10", 12))
	require.NoError(t, err)
	assert.Equal(t, 15, s.Interval)
	assert.InDelta(t, 2.5, s.EaseFactor, 1e-9)
	assert.Equal(t, "2024-03-25", s.NextReviewDate)
}

func TestReviewEaseFloor(t *testing.T) {
	s, err := Review(6, 1.3, QualityHard, at("2024-03-10", 12))
	require.NoError(t, err)
	assert.Equal(t, 7, s.Interval)
	assert.Equal(t, MinEaseFactor, s.EaseFactor)

	s, err = Review(6, 2.5, QualityEasy, at("2024-03-10", 12))
	require.NoError(t, err)
	assert.InDelta(t, 2.6, s.EaseFactor, 1e-9)
}

func TestReviewRejectsOutOfRangeQuality(t *testing.T) {
	_, err := Review(1, 2.5, 6, at("2024-03-10", 12))
	assert.ErrorIs(t, err, ErrInvalidQuality)
	_, err = Review(1, 2.5, -1, at("2024-03-10", 12))
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestIsDue(t *testing.T) {
	today := at("2024-03-10", 23)
	assert.True(t, IsDue("2024-03-10", today))
	assert.True(t, IsDue("2024-01-01", today))
	assert.False(t, IsDue("2024-03-11", today))
}
