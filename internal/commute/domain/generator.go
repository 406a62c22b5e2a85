package domain

import (
	"math/rand/v2"
	"sync"
	"time"

	"commute_backend/platform/geo"
)

// Generator scatters synthetic houses around a center.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed. Seed 0 seeds from the clock.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns HouseCount houses around center.
// Each point draws one sign that applies to both axes, then an independent
// magnitude in [0, MaxOffsetDeg) for latitude and for longitude.
func (g *Generator) Generate(center geo.Coordinate) []House {
	g.mu.Lock()
	defer g.mu.Unlock()

	houses := make([]House, 0, HouseCount)
	for i := 0; i < HouseCount; i++ {
		sign := 1.0
		if g.rng.Float64() < 0.5 {
			sign = -1.0
		}
		dLat := sign * g.rng.Float64() * MaxOffsetDeg
		dLng := sign * g.rng.Float64() * MaxOffsetDeg
		houses = append(houses, NewHouse(center.Offset(dLat, dLng)))
	}
	return houses
}
