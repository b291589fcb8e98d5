package sensor

import (
	"math"
	"time"
)

// Sample is a single reading taken from a channel.
type Sample struct {
	Channel   string
	Seq       uint64
	Value     float64
	Timestamp time.Time
}

// Generator produces the value of the seq-th reading taken at t.
type Generator func(seq uint64, t time.Time) float64

// SineGenerator returns a generator tracing a sine wave that completes
// a cycle every period samples.
func SineGenerator(amplitude float64, period uint64) Generator {
	if period == 0 {
		period = 1
	}

	return func(seq uint64, _ time.Time) float64 {
		phase := float64(seq%period) / float64(period)
		return amplitude * math.Sin(2*math.Pi*phase)
	}
}

// CounterGenerator returns a generator whose value is the sequence number.
func CounterGenerator() Generator {
	return func(seq uint64, _ time.Time) float64 {
		return float64(seq)
	}
}
