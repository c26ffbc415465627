package images

import (
	"math/rand"
	"time"
)

// NoiseSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type NoiseSource interface {
	Float64() float64
}

// NewNoiseSource returns a generator for AddNoise. A zero seed picks a
// clock-based seed, so only non-zero seeds reproduce a corruption pattern.
func NewNoiseSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// AddNoise applies salt-and-pepper corruption in place.
//
// Each pixel is hit with probability level. A hit pixel becomes 0 or
// img.MaxValue (capped at 255) with equal probability, decided by a second draw.
//
// Arguments:
//   - img: The image to corrupt.
//   - level: Per-pixel corruption probability in [0, 1].
//   - src: The random source; nil uses a clock-seeded generator.
//
// @example
// noisy := original.Clone()
// AddNoise(noisy, 0.05, NewNoiseSource(42))
func AddNoise(img *Image, level float64, src NoiseSource) {
	if src == nil {
		src = NewNoiseSource(0)
	}
	salt := clamp(img.MaxValue, 0, 255)
	for i := range img.pixels {
		if src.Float64() < level {
			if src.Float64() < 0.5 {
				img.pixels[i] = 0
			} else {
				img.pixels[i] = salt
			}
		}
	}
}
