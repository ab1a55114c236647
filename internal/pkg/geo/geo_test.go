package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_KnownPoints(t *testing.T) {
	// Casablanca centre -> Rabat centre, roughly 87 km.
	d := DistanceKm(33.5731, -7.5898, 34.0209, -6.8416)
	assert.InDelta(t, 87, d, 3)
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(33.5731, -7.5898, 33.5731, -7.5898))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{33.5731, -7.5898, 34.0209, -6.8416},
		{0, 0, 45, 90},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if ab == 0 {
			assert.Equal(t, 0.0, ba)
			continue
		}
		assert.LessOrEqual(t, math.Abs(ab-ba)/ab, 1e-9)
	}
}

func TestDistanceKm_ShortDistance(t *testing.T) {
	// Two points inside the same city quarter, under 3 km apart.
	d := DistanceKm(33.5731, -7.5898, 33.58, -7.60)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 3.0)
}
