// Package kernel builds the 5x5 fire-propagation survival mask (spec §4.1).
package kernel

import (
	"math"

	"wildfireevac/simerr"
)

const (
	// Size is the side length of the neighbor mask.
	Size = 5
	// Len is the flattened mask length (Size*Size).
	Len = Size * Size
	center = Size / 2

	// DefaultPropagationRate is alpha, the default fire-propagation coefficient.
	DefaultPropagationRate = 0.094
	// windSpeedCoefficient is beta, the speed-to-percent coefficient for wind warp.
	windSpeedCoefficient = 0.004
)

// Mask is a flattened, row-major 5x5 survival-probability mask: Mask[k] is the
// probability that neighbor k, if burning, fails to ignite the center cell.
type Mask [Len]float64

// Wind carries an optional wind speed/angle pair. Both fields are meaningful
// only when Enabled is true.
type Wind struct {
	Enabled bool
	Speed   float64 // s >= 0
	Angle   float64 // theta, radians
}

// NewWind validates and constructs a Wind from speed/angle, where a nil speed
// or angle pointer means "not supplied". Per spec §4.1, wind must be both
// supplied or both absent.
func NewWind(speed, angle *float64) (Wind, error) {
	if speed == nil && angle == nil {
		return Wind{}, nil
	}
	if speed == nil || angle == nil {
		return Wind{}, simerr.New(simerr.InvalidWind, "wind speed and angle must both be set or both be absent")
	}
	if *speed < 0 {
		return Wind{}, simerr.New(simerr.InvalidWind, "wind speed must be non-negative")
	}
	return Wind{Enabled: true, Speed: *speed, Angle: *angle}, nil
}

// Build derives the survival mask for the given propagation coefficient and
// optional wind. alpha must be positive.
func Build(alpha float64, wind Wind) Mask {
	var m Mask
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			idx := i*Size + j
			if i == center && j == center {
				m[idx] = 1
				continue
			}
			di := float64(i - center)
			dj := float64(j - center)
			d2 := di*di + dj*dj
			m[idx] = 1 - alpha/d2
		}
	}

	if wind.Enabled {
		wx := math.Cos(wind.Angle)
		wy := math.Sin(wind.Angle)
		for i := 0; i < Size; i++ {
			for j := 0; j < Size; j++ {
				idx := i*Size + j
				if i == center && j == center {
					continue
				}
				di := float64(i - center)
				dj := float64(j - center)
				norm := math.Sqrt(di*di + dj*dj)
				// v_k points from center to neighbor k; its x-component tracks the
				// column (east/west) axis and y-component the row (north/south) axis,
				// so that wind angle 0 blows due east (+column) and pi due west.
				vx := dj / norm
				vy := di / norm
				dot := vx*wx + vy*wy
				scaled := m[idx] * (1 + windSpeedCoefficient*wind.Speed*dot)
				m[idx] = clamp01(scaled)
			}
		}
	}

	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
