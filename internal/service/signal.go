package service

import (
	"math/rand"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/pkg/utils"
)

// signalDays is the length of a synthetic NDVI series
const signalDays = 30

// SignalGenerator synthesizes a plausible NDVI series from weather drivers
// when no satellite-derived series is available. The output is a bounded
// random walk, not a forecast, and is never presented as measured data.
type SignalGenerator struct {
	rnd func() float64 // uniform in [0,1)
}

// NewSignalGenerator creates a generator backed by the default random source
func NewSignalGenerator() *SignalGenerator {
	return &SignalGenerator{rnd: rand.Float64}
}

// NewSignalGeneratorWithSource creates a generator with an injected random
// source so tests can fix the seed
func NewSignalGeneratorWithSource(rnd func() float64) *SignalGenerator {
	return &SignalGenerator{rnd: rnd}
}

// Generate produces a 30-value NDVI series in [0.10, 0.95]. The base level
// reflects heat stress, disease-favoring humidity and waterlogging; humidity
// above 75 biases the daily drift downward to simulate declining crop health.
func (g *SignalGenerator) Generate(weather domain.Weather) []float64 {
	base := 0.65
	if weather.Temperature > 35 {
		base -= 0.10 // heat stress
	}
	if weather.Humidity > 80 {
		base -= 0.05 // high humidity favors disease
	}
	if weather.Rainfall > 10 {
		base -= 0.08 // waterlogging
	}
	if weather.Temperature < 20 {
		base += 0.05 // cool, less stress
	}
	base = utils.Clamp(base, 0.25, 0.85)

	series := make([]float64, 0, signalDays)
	current := base + (g.rnd()*0.1 - 0.05)
	current = utils.Clamp(current, 0.10, 0.95)
	series = append(series, utils.RoundTo(current, 3))

	for i := 1; i < signalDays; i++ {
		var drift float64
		if weather.Humidity > 75 {
			drift = g.rnd()*-0.012 - 0.003 // declining under disease-favorable conditions
		} else {
			drift = g.rnd()*0.015 - 0.005 // stable to mildly improving
		}
		current = utils.Clamp(current+drift, 0.10, 0.95)
		series = append(series, utils.RoundTo(current, 3))
	}

	return series
}
