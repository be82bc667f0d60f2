package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zone-recommender/internal/pkg/utils"
)

func TestHaversineMiles(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, utils.HaversineMiles(38.88, -77.10, 38.88, -77.10))
	})

	t.Run("known distance between Arlington landmarks", func(t *testing.T) {
		// Ballston metro to Rosslyn metro, about 2.4 miles.
		d := utils.HaversineMiles(38.882, -77.1116, 38.8969, -77.0719)
		assert.InDelta(t, 2.4, d, 0.2)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a := utils.HaversineMiles(38.88, -77.10, 38.90, -77.05)
		b := utils.HaversineMiles(38.90, -77.05, 38.88, -77.10)
		assert.InDelta(t, a, b, 1e-9)
	})
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(38.88, -77.10))
	assert.True(t, utils.ValidateCoordinates(-90, 180))
	assert.False(t, utils.ValidateCoordinates(90.1, 0))
	assert.False(t, utils.ValidateCoordinates(0, -180.5))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 12.3, utils.Round1(12.34))
	assert.Equal(t, 12.4, utils.Round1(12.35))
	assert.Equal(t, 0.0, utils.Round1(0.04))
	assert.Equal(t, 100.0, utils.Round1(99.96))
}
