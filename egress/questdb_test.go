package egress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/squadracorsepolito/ringbuf/internal"
	"github.com/squadracorsepolito/ringbuf/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type lineRecorder struct {
	mux   sync.Mutex
	lines []string
}

func (r *lineRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/write" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	body, _ := io.ReadAll(req.Body)

	r.mux.Lock()
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		if line != "" {
			r.lines = append(r.lines, line)
		}
	}
	r.mux.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func newQuietQuestDB(cfg *QuestDBConfig) *QuestDB {
	e := NewQuestDB(cfg)
	e.SetTelemetry(internal.NewTelemetryWith("egress", "quest_db",
		internal.NewWriterLogger("egress", "quest_db", io.Discard), noop.NewMeterProvider()))
	return e
}

func Test_QuestDB_DeliverBeforeInit(t *testing.T) {
	assert := assert.New(t)

	e := newQuietQuestDB(NewDefaultQuestDBConfig())

	err := e.Deliver(context.Background(), []sensor.Sample{{Seq: 1}})
	assert.ErrorIs(err, ErrNotInitialized)
}

func Test_QuestDB_Deliver(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	recorder := &lineRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	cfg := NewDefaultQuestDBConfig()
	cfg.Address = strings.TrimPrefix(server.URL, "http://")

	e := newQuietQuestDB(cfg)
	require.NoError(t, e.Init(ctx))
	defer e.Close(ctx)

	ts := time.Unix(1_700_000_000, 0)
	samples := []sensor.Sample{
		{Channel: "temp", Seq: 1, Value: 2.5, Timestamp: ts},
		{Channel: "temp", Seq: 2, Value: -1, Timestamp: ts.Add(time.Second)},
	}
	require.NoError(t, e.Deliver(ctx, samples))
	assert.Equal(int64(2), e.DeliveredRows())

	recorder.mux.Lock()
	defer recorder.mux.Unlock()

	require.Len(t, recorder.lines, 2)
	assert.True(strings.HasPrefix(recorder.lines[0], "ring_samples,channel=temp "))
	assert.Contains(recorder.lines[0], "seq=1i")
	assert.Contains(recorder.lines[0], "value=2.5")
	assert.Contains(recorder.lines[1], "seq=2i")
}
