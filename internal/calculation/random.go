package calculation

import (
	"math/rand/v2"
	"time"
)

// Stream is the source of standard normal draws for a single simulation path.
type Stream interface {
	NormFloat64() float64
}

// StreamSource hands out the Stream for each path index. Implementations must return streams
// that are safe to use concurrently with streams for other indices.
type StreamSource interface {
	Stream(path int) Stream
}

// SeededSource derives an independent PCG generator for every path from one seed, so a run is
// reproducible regardless of how paths are spread across workers.
type SeededSource struct {
	Seed uint64
}

// NewSeededSource returns a SeededSource for seed.
func NewSeededSource(seed uint64) SeededSource {
	return SeededSource{Seed: seed}
}

// Stream returns a fresh generator keyed by (seed, path).
func (s SeededSource) Stream(path int) Stream {
	return rand.New(rand.NewPCG(s.Seed, uint64(path)))
}

// seedFunc returns a seed for runs that did not ask for one (override for deterministic tests).
var seedFunc = func() uint64 { return uint64(time.Now().UnixNano()) }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() uint64) { seedFunc = f }

// NewSeed returns a seed from the current seed provider.
func NewSeed() uint64 { return seedFunc() }
