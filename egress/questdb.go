package egress

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	qdb "github.com/questdb/go-questdb-client/v3"
	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/sensor"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNotInitialized = errors.New("questdb: sink is not initialized")

var _ sensor.Sink = (*QuestDB)(nil)

type QuestDBConfig struct {
	Address string
	Table   string

	AutoFlushRows int
	RetryTimeout  time.Duration
}

func NewDefaultQuestDBConfig() *QuestDBConfig {
	return &QuestDBConfig{
		Address: "localhost:9000",
		Table:   "ring_samples",

		AutoFlushRows: 75_000,
		RetryTimeout:  time.Second,
	}
}

// QuestDB delivers samples to a QuestDB table over the HTTP line protocol.
type QuestDB struct {
	tel *internal.Telemetry

	cfg *QuestDBConfig

	senderPool *qdb.LineSenderPool
	sender     qdb.LineSender

	// Telemetry metrics
	deliveredRows atomic.Int64
}

func NewQuestDB(cfg *QuestDBConfig) *QuestDB {
	return &QuestDB{
		tel: internal.NewTelemetry("egress", "quest_db"),

		cfg: cfg,
	}
}

func (e *QuestDB) SetTelemetry(tel *internal.Telemetry) {
	e.tel = tel
}

func (e *QuestDB) Init(ctx context.Context) error {
	senderPool, err := qdb.PoolFromOptions(
		qdb.WithAddress(e.cfg.Address),
		qdb.WithHttp(),
		qdb.WithAutoFlushRows(e.cfg.AutoFlushRows),
		qdb.WithRetryTimeout(e.cfg.RetryTimeout),
	)
	if err != nil {
		return err
	}

	sender, err := senderPool.Sender(ctx)
	if err != nil {
		senderPool.Close(ctx)
		return err
	}

	e.senderPool = senderPool
	e.sender = sender

	e.tel.LogInfo("connected to questdb", "address", e.cfg.Address, "table", e.cfg.Table)

	return nil
}

func (e *QuestDB) Deliver(ctx context.Context, samples []sensor.Sample) error {
	if e.sender == nil {
		return ErrNotInitialized
	}

	ctx, span := e.tel.NewTrace(ctx, "insert samples")
	defer span.End()

	span.SetAttributes(attribute.Int("sample_count", len(samples)))

	for _, sample := range samples {
		err := e.sender.Table(e.cfg.Table).
			Symbol("channel", sample.Channel).
			Int64Column("seq", int64(sample.Seq)).
			Float64Column("value", sample.Value).
			At(ctx, sample.Timestamp)
		if err != nil {
			span.RecordError(err)
			return err
		}
	}

	if err := e.sender.Flush(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	e.deliveredRows.Add(int64(len(samples)))

	return nil
}

func (e *QuestDB) DeliveredRows() int64 {
	return e.deliveredRows.Load()
}

func (e *QuestDB) Close(ctx context.Context) {
	if e.sender != nil {
		if err := e.sender.Close(ctx); err != nil {
			e.tel.LogError("failed to close sender", err)
		}
		e.sender = nil
	}

	if e.senderPool != nil {
		if err := e.senderPool.Close(ctx); err != nil {
			e.tel.LogError("failed to close sender pool", err)
		}
		e.senderPool = nil
	}
}
