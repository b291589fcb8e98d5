package sensor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/ring"
	"go.opentelemetry.io/otel/attribute"
)

type SourceConfig struct {
	Channel  string
	Interval time.Duration
}

func NewDefaultSourceConfig() *SourceConfig {
	return &SourceConfig{
		Channel:  "sensor_0",
		Interval: 10 * time.Millisecond,
	}
}

// Source samples a generator at a fixed interval and pushes the readings.
// Readings refused by a full buffer are dropped, never retried.
type Source struct {
	tel *internal.Telemetry

	cfg *SourceConfig
	gen Generator
	out Pusher

	seq uint64

	// dropping is true while consecutive pushes are being refused
	dropping     bool
	droppedStart uint64

	// Telemetry metrics
	pushedSamples  atomic.Int64
	droppedSamples atomic.Int64
}

func NewSource(cfg *SourceConfig, gen Generator, out Pusher) *Source {
	return &Source{
		tel: internal.NewTelemetry("sensor", cfg.Channel),

		cfg: cfg,
		gen: gen,
		out: out,
	}
}

func (s *Source) SetTelemetry(tel *internal.Telemetry) {
	s.tel = tel
}

func (s *Source) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tel.LogInfo("starting source", "interval", s.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			s.tel.LogInfo("stopping source",
				"pushed", s.pushedSamples.Load(), "dropped", s.droppedSamples.Load())
			return

		case now := <-ticker.C:
			s.handleTrigger(ctx, now)
		}
	}
}

func (s *Source) handleTrigger(ctx context.Context, now time.Time) {
	ctx, span := s.tel.NewTrace(ctx, "take sample")
	defer span.End()

	seq := s.seq
	s.seq++

	sample := Sample{
		Channel:   s.cfg.Channel,
		Seq:       seq,
		Value:     s.gen(seq, now),
		Timestamp: now,
	}

	span.SetAttributes(attribute.Int64("seq", int64(seq)))

	err := s.out.Push(ctx, sample)
	switch {
	case err == nil:
		s.pushedSamples.Add(1)

		if s.dropping {
			s.dropping = false
			s.tel.LogInfo("buffer accepting samples again", "dropped", seq-s.droppedStart)
		}

	case errors.Is(err, ring.ErrBufferFull):
		s.droppedSamples.Add(1)

		if !s.dropping {
			s.dropping = true
			s.droppedStart = seq
			s.tel.LogWarn("buffer is full, dropping samples", "seq", seq)
		}

	default:
		span.RecordError(err)
		s.tel.LogError("failed to push sample", err, "seq", seq)
	}
}

func (s *Source) Pushed() int64 {
	return s.pushedSamples.Load()
}

func (s *Source) Dropped() int64 {
	return s.droppedSamples.Load()
}
