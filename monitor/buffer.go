// Package monitor instruments a protected ring buffer with OpenTelemetry
// metrics, structured logs and periodic traffic stats.
//
// The wrapper keeps the single-threaded contract of the ring package and adds
// no locking of its own.
package monitor

import (
	"context"

	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/ring"
	"go.opentelemetry.io/otel/metric"
)

const telemetryKind = "ring"

type Buffer[T any, I ring.Index] struct {
	rb *ring.Buffer[T, I]

	tel   *internal.Telemetry
	stats *internal.Stats

	// Telemetry metrics
	writes        metric.Int64Counter
	reads         metric.Int64Counter
	refusedWrites metric.Int64Counter
	refusedReads  metric.Int64Counter
	occupancy     metric.Int64UpDownCounter
}

// New wraps rb using the global otel providers.
func New[T any, I ring.Index](name string, rb *ring.Buffer[T, I]) *Buffer[T, I] {
	return NewWithTelemetry(rb, internal.NewTelemetry(telemetryKind, name))
}

// NewWithTelemetry wraps rb using tel for logs and metrics.
func NewWithTelemetry[T any, I ring.Index](rb *ring.Buffer[T, I], tel *internal.Telemetry) *Buffer[T, I] {
	b := &Buffer[T, I]{
		rb: rb,

		tel:   tel,
		stats: internal.NewStats(tel.Logger()),
	}

	b.writes = tel.NewCounter("writes")
	b.reads = tel.NewCounter("reads")
	b.refusedWrites = tel.NewCounter("refused_writes")
	b.refusedReads = tel.NewCounter("refused_reads")
	b.occupancy = tel.NewUpDownCounter("occupancy")

	b.occupancy.Add(context.Background(), int64(rb.Len()))

	return b
}

// RunStats logs the buffer traffic once per second until ctx is done.
func (b *Buffer[T, I]) RunStats(ctx context.Context) {
	b.stats.RunStats(ctx)
}

func (b *Buffer[T, I]) Write(item T) (I, error) {
	return b.WriteCtx(context.Background(), item)
}

func (b *Buffer[T, I]) WriteCtx(ctx context.Context, item T) (I, error) {
	idx, err := b.rb.Write(item)
	if err != nil {
		b.refusedWrites.Add(ctx, 1)
		b.stats.IncrementRefusedWriteCount()
		return idx, err
	}

	b.writes.Add(ctx, 1)
	b.occupancy.Add(ctx, 1)
	b.stats.IncrementWriteCount()

	if b.rb.IsFull() {
		b.tel.LogWarn("buffer is full", "capacity", uint64(b.rb.Cap()))
	}

	return idx, nil
}

func (b *Buffer[T, I]) Read() (T, error) {
	return b.ReadCtx(context.Background())
}

func (b *Buffer[T, I]) ReadCtx(ctx context.Context) (T, error) {
	wasFull := b.rb.IsFull()

	item, err := b.rb.Read()
	if err != nil {
		b.refusedReads.Add(ctx, 1)
		b.stats.IncrementRefusedReadCount()
		return item, err
	}

	b.reads.Add(ctx, 1)
	b.occupancy.Add(ctx, -1)
	b.stats.IncrementReadCount()

	if wasFull {
		b.tel.LogInfo("buffer is no longer full", "free", uint64(b.rb.Free()))
	}

	return item, nil
}

func (b *Buffer[T, I]) Peek() (T, error) {
	return b.rb.Peek()
}

func (b *Buffer[T, I]) IsFull() bool {
	return b.rb.IsFull()
}

func (b *Buffer[T, I]) IsEmpty() bool {
	return b.rb.IsEmpty()
}

func (b *Buffer[T, I]) State() ring.State {
	return b.rb.State()
}

func (b *Buffer[T, I]) Len() I {
	return b.rb.Len()
}

func (b *Buffer[T, I]) Cap() I {
	return b.rb.Cap()
}

// Reset empties the buffer, discarding the unread items.
func (b *Buffer[T, I]) Reset() {
	discarded := b.rb.Len()
	b.rb.Reset()

	b.occupancy.Add(context.Background(), -int64(discarded))

	if discarded > 0 {
		b.tel.LogWarn("buffer reset", "discarded", uint64(discarded))
	}
}
