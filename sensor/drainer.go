package sensor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/squadracorsepolito/ringbuf/internal"
	"go.opentelemetry.io/otel/attribute"
)

// Sink receives drained samples. The slice is reused after Deliver returns.
type Sink interface {
	Deliver(ctx context.Context, samples []Sample) error
}

type DrainerConfig struct {
	Interval  time.Duration
	BatchSize int
}

func NewDefaultDrainerConfig() *DrainerConfig {
	return &DrainerConfig{
		Interval:  100 * time.Millisecond,
		BatchSize: 32,
	}
}

// Drainer periodically moves samples from a buffer into a sink
// through a batch slice allocated once.
type Drainer struct {
	tel *internal.Telemetry

	cfg  *DrainerConfig
	in   Drainable
	sink Sink

	batch []Sample

	// Telemetry metrics
	deliveredSamples atomic.Int64
	failedBatches    atomic.Int64
}

func NewDrainer(cfg *DrainerConfig, in Drainable, sink Sink) *Drainer {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	return &Drainer{
		tel: internal.NewTelemetry("sensor", "drainer"),

		cfg:  cfg,
		in:   in,
		sink: sink,

		batch: make([]Sample, batchSize),
	}
}

func (d *Drainer) SetTelemetry(tel *internal.Telemetry) {
	d.tel = tel
}

func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// deliver what is left before leaving
			d.drain(context.WithoutCancel(ctx))

			d.tel.LogInfo("stopping drainer",
				"delivered", d.deliveredSamples.Load(), "failed_batches", d.failedBatches.Load())
			return

		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

// drain empties the buffer one batch at a time and returns the number of samples delivered.
func (d *Drainer) drain(ctx context.Context) int {
	ctx, span := d.tel.NewTrace(ctx, "drain buffer")
	defer span.End()

	total := 0
	for {
		n := d.in.Drain(ctx, d.batch)
		if n == 0 {
			break
		}

		if err := d.sink.Deliver(ctx, d.batch[:n]); err != nil {
			d.failedBatches.Add(1)
			span.RecordError(err)
			d.tel.LogError("failed to deliver samples", err, "count", n)
		} else {
			d.deliveredSamples.Add(int64(n))
			total += n
		}

		if n < len(d.batch) {
			break
		}
	}

	span.SetAttributes(attribute.Int("delivered", total))

	return total
}

func (d *Drainer) Delivered() int64 {
	return d.deliveredSamples.Load()
}
