package sensor

import (
	"context"
	"sync"

	"github.com/squadracorsepolito/ringbuf/monitor"
	"github.com/squadracorsepolito/ringbuf/ring"
)

// Pusher accepts samples from a producer.
type Pusher interface {
	Push(ctx context.Context, sample Sample) error
}

// Drainable hands buffered samples to a consumer.
type Drainable interface {
	// Drain moves up to len(dst) samples into dst, oldest first,
	// and returns how many were moved.
	Drain(ctx context.Context, dst []Sample) int
}

var (
	_ Pusher    = (*Ring[uint8])(nil)
	_ Drainable = (*Ring[uint8])(nil)
)

// Ring shares a monitored buffer between one producer and one consumer goroutine.
// Every access to the underlying buffer is serialized by a mutex.
type Ring[I ring.Index] struct {
	mux sync.Mutex
	buf *monitor.Buffer[Sample, I]
}

func NewRing[I ring.Index](buf *monitor.Buffer[Sample, I]) *Ring[I] {
	return &Ring[I]{
		buf: buf,
	}
}

// Push writes sample into the buffer. It returns ring.ErrBufferFull
// when the buffer has no room, the sample is not stored in that case.
func (r *Ring[I]) Push(ctx context.Context, sample Sample) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	_, err := r.buf.WriteCtx(ctx, sample)
	return err
}

func (r *Ring[I]) Drain(ctx context.Context, dst []Sample) int {
	r.mux.Lock()
	defer r.mux.Unlock()

	n := 0
	for n < len(dst) && !r.buf.IsEmpty() {
		sample, err := r.buf.ReadCtx(ctx)
		if err != nil {
			break
		}

		dst[n] = sample
		n++
	}

	return n
}

func (r *Ring[I]) Len() int {
	r.mux.Lock()
	defer r.mux.Unlock()

	return int(r.buf.Len())
}
