package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/squadracorsepolito/ringbuf/egress"
	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/monitor"
	"github.com/squadracorsepolito/ringbuf/ring"
	"github.com/squadracorsepolito/ringbuf/sensor"
	"github.com/squadracorsepolito/ringbuf/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sample a simulated sensor into a ring buffer and drain it to a sink",
		Long: `Sample a simulated sensor into a ring buffer and drain it to a sink.

The producer never blocks: samples arriving while the buffer is full are
dropped and counted. The consumer drains the buffer in fixed size batches
either to the log or to a QuestDB table.

Example:
  ringbuf run --capacity 32 --interval 5ms --drain-interval 500ms
  ringbuf run --config ringbuf.yaml --questdb localhost:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, cancelCtx := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer cancelCtx()

			return run(ctx, cfg)
		},
	}

	bindConfigFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, cfg *Config) error {
	l := internal.NewLogger("cmd", "run")

	if cfg.OTLP {
		telCfg := telemetry.NewDefaultConfig()
		providers, err := telemetry.Init(ctx, telCfg)
		if err != nil {
			return err
		}

		defer func() {
			if err := providers.Close(context.Background()); err != nil {
				l.Error("failed to close telemetry providers", err)
			}
		}()
	}

	// The backing storage is allocated once here and owned by this function.
	storage := make([]sensor.Sample, cfg.Capacity)
	rb, err := ring.New(storage, uint8(cfg.Capacity))
	if err != nil {
		return err
	}

	buf := monitor.New("samples", rb)
	samples := sensor.NewRing(buf)

	sink, closeSink, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	source := sensor.NewSource(
		&sensor.SourceConfig{Channel: cfg.Channel, Interval: cfg.SampleInterval},
		sensor.SineGenerator(10, 100),
		samples,
	)

	drainer := sensor.NewDrainer(
		&sensor.DrainerConfig{Interval: cfg.DrainInterval, BatchSize: cfg.BatchSize},
		samples,
		sink,
	)

	l.Info("starting", "capacity", cfg.Capacity, "channel", cfg.Channel)

	wg := &sync.WaitGroup{}
	wg.Add(3)

	go func() {
		defer wg.Done()
		source.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		drainer.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		buf.RunStats(ctx)
	}()

	<-ctx.Done()
	wg.Wait()

	l.Info("stopped", "pushed", source.Pushed(), "dropped", source.Dropped(), "delivered", drainer.Delivered())

	return nil
}

func newSink(ctx context.Context, cfg *Config) (sensor.Sink, func(), error) {
	if cfg.QuestDB == "" {
		return sensor.NewLogSink(internal.NewLogger("sensor", "log_sink")), func() {}, nil
	}

	qdbCfg := egress.NewDefaultQuestDBConfig()
	qdbCfg.Address = cfg.QuestDB
	qdbCfg.Table = cfg.QuestDBTable

	qdb := egress.NewQuestDB(qdbCfg)
	if err := qdb.Init(ctx); err != nil {
		return nil, nil, err
	}

	return qdb, func() { qdb.Close(context.Background()) }, nil
}
