package sensor

import (
	"context"

	"github.com/squadracorsepolito/ringbuf/internal"
)

var _ Sink = (*LogSink)(nil)

// LogSink logs a summary of every delivered batch.
type LogSink struct {
	l *internal.Logger
}

func NewLogSink(l *internal.Logger) *LogSink {
	return &LogSink{
		l: l,
	}
}

func (s *LogSink) Deliver(_ context.Context, samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}

	minVal, maxVal, sum := samples[0].Value, samples[0].Value, 0.0
	for _, sample := range samples {
		minVal = min(minVal, sample.Value)
		maxVal = max(maxVal, sample.Value)
		sum += sample.Value
	}

	s.l.Info("delivered samples",
		"count", len(samples),
		"first_seq", samples[0].Seq,
		"last_seq", samples[len(samples)-1].Seq,
		"min", minVal,
		"max", maxVal,
		"mean", sum/float64(len(samples)),
	)

	return nil
}
