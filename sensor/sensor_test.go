package sensor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/monitor"
	"github.com/squadracorsepolito/ringbuf/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func newQuietTelemetry(name string, w io.Writer) *internal.Telemetry {
	return internal.NewTelemetryWith("sensor", name, internal.NewWriterLogger("sensor", name, w), noop.NewMeterProvider())
}

func newTestRing(t *testing.T, capacity uint8) *Ring[uint8] {
	rb, err := ring.New(make([]Sample, capacity), capacity)
	require.NoError(t, err)

	return NewRing(monitor.NewWithTelemetry(rb, newQuietTelemetry("ring", io.Discard)))
}

type recordingSink struct {
	batches [][]Sample
	err     error
}

func (s *recordingSink) Deliver(_ context.Context, samples []Sample) error {
	if s.err != nil {
		return s.err
	}

	s.batches = append(s.batches, append([]Sample(nil), samples...))
	return nil
}

type scriptedPusher struct {
	errs   []error
	pushed []Sample
}

func (p *scriptedPusher) Push(_ context.Context, sample Sample) error {
	var err error
	if len(p.errs) > 0 {
		err = p.errs[0]
		p.errs = p.errs[1:]
	}

	if err == nil {
		p.pushed = append(p.pushed, sample)
	}

	return err
}

func Test_Ring_PushDrain(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := newTestRing(t, 4)

	for seq := range uint64(4) {
		assert.NoError(r.Push(ctx, Sample{Seq: seq}))
	}
	assert.ErrorIs(r.Push(ctx, Sample{Seq: 4}), ring.ErrBufferFull)
	assert.Equal(4, r.Len())

	dst := make([]Sample, 3)
	assert.Equal(3, r.Drain(ctx, dst))
	assert.Equal(uint64(0), dst[0].Seq)
	assert.Equal(uint64(2), dst[2].Seq)

	assert.Equal(1, r.Drain(ctx, dst))
	assert.Equal(uint64(3), dst[0].Seq)

	assert.Zero(r.Drain(ctx, dst))
	assert.Zero(r.Len())
}

func Test_Source_handleTrigger(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	out := &bytes.Buffer{}
	pusher := &scriptedPusher{
		errs: []error{nil, ring.ErrBufferFull, ring.ErrBufferFull, nil, errors.New("broken")},
	}

	s := NewSource(&SourceConfig{Channel: "temp", Interval: time.Millisecond}, CounterGenerator(), pusher)
	s.SetTelemetry(newQuietTelemetry("temp", out))

	now := time.Now()
	for range 5 {
		s.handleTrigger(ctx, now)
	}

	assert.Equal(int64(2), s.Pushed())
	assert.Equal(int64(2), s.Dropped())

	require.Len(t, pusher.pushed, 2)
	assert.Equal(uint64(0), pusher.pushed[0].Seq)
	assert.Equal(uint64(3), pusher.pushed[1].Seq)
	assert.Equal(3.0, pusher.pushed[1].Value)
	assert.Equal("temp", pusher.pushed[1].Channel)
	assert.Equal(now, pusher.pushed[1].Timestamp)

	assert.Contains(out.String(), "dropping samples")
	assert.Contains(out.String(), "dropped=2")
	assert.Contains(out.String(), "broken")
}

func Test_Source_DropsWhenFull(t *testing.T) {
	assert := assert.New(t)

	r := newTestRing(t, 4)

	s := NewSource(&SourceConfig{Channel: "temp", Interval: time.Millisecond}, CounterGenerator(), r)
	s.SetTelemetry(newQuietTelemetry("temp", io.Discard))

	ctx, cancelCtx := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancelCtx()

	s.Run(ctx)

	assert.Equal(int64(4), s.Pushed())
	assert.Positive(s.Dropped())

	dst := make([]Sample, 8)
	n := r.Drain(context.Background(), dst)
	require.Equal(t, 4, n)
	for idx := range n {
		assert.Equal(uint64(idx), dst[idx].Seq)
		assert.Equal(float64(idx), dst[idx].Value)
	}
}

func Test_Drainer_drain(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := newTestRing(t, 8)
	for seq := range uint64(7) {
		require.NoError(t, r.Push(ctx, Sample{Seq: seq}))
	}

	sink := &recordingSink{}
	d := NewDrainer(&DrainerConfig{Interval: time.Millisecond, BatchSize: 3}, r, sink)
	d.SetTelemetry(newQuietTelemetry("drainer", io.Discard))

	assert.Equal(7, d.drain(ctx))
	assert.Equal(int64(7), d.Delivered())

	require.Len(t, sink.batches, 3)
	assert.Len(sink.batches[0], 3)
	assert.Len(sink.batches[1], 3)
	assert.Len(sink.batches[2], 1)

	seq := uint64(0)
	for _, batch := range sink.batches {
		for _, sample := range batch {
			assert.Equal(seq, sample.Seq)
			seq++
		}
	}

	assert.Zero(d.drain(ctx))
}

func Test_Drainer_SinkError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := newTestRing(t, 4)
	require.NoError(t, r.Push(ctx, Sample{Seq: 1}))

	out := &bytes.Buffer{}
	d := NewDrainer(&DrainerConfig{Interval: time.Millisecond, BatchSize: 4}, r, &recordingSink{err: errors.New("sink down")})
	d.SetTelemetry(newQuietTelemetry("drainer", out))

	assert.Zero(d.drain(ctx))
	assert.Zero(d.Delivered())
	assert.Equal(int64(1), d.failedBatches.Load())
	assert.Contains(out.String(), "sink down")
}

func Test_Drainer_RunFlushesOnStop(t *testing.T) {
	assert := assert.New(t)

	r := newTestRing(t, 4)
	for seq := range uint64(3) {
		require.NoError(t, r.Push(context.Background(), Sample{Seq: seq}))
	}

	sink := &recordingSink{}
	d := NewDrainer(&DrainerConfig{Interval: time.Hour, BatchSize: 2}, r, sink)
	d.SetTelemetry(newQuietTelemetry("drainer", io.Discard))

	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	d.Run(ctx)

	assert.Equal(int64(3), d.Delivered())
	assert.Len(sink.batches, 2)
}

func Test_LogSink(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	sink := NewLogSink(internal.NewWriterLogger("sensor", "log_sink", out))

	assert.NoError(sink.Deliver(context.Background(), nil))
	assert.Zero(out.Len())

	samples := []Sample{{Seq: 4, Value: 1}, {Seq: 5, Value: 3}, {Seq: 6, Value: 2}}
	assert.NoError(sink.Deliver(context.Background(), samples))
	assert.Contains(out.String(), "count=3")
	assert.Contains(out.String(), "first_seq=4")
	assert.Contains(out.String(), "last_seq=6")
	assert.Contains(out.String(), "mean=2")
}

func Test_Generators(t *testing.T) {
	assert := assert.New(t)

	sine := SineGenerator(2, 8)
	assert.InDelta(0, sine(0, time.Time{}), 1e-9)
	assert.InDelta(2, sine(2, time.Time{}), 1e-9)
	assert.InDelta(-2, sine(6, time.Time{}), 1e-9)
	assert.InDelta(0, sine(8, time.Time{}), 1e-9)

	counter := CounterGenerator()
	assert.Equal(42.0, counter(42, time.Time{}))
}
