package internal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Stats_Flush(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	s := NewStats(NewWriterLogger("ring", "test", out))

	assert.False(s.flush())
	assert.Zero(out.Len())

	for range 3 {
		s.IncrementWriteCount()
	}
	s.IncrementReadCount()
	s.IncrementRefusedWriteCount()
	s.IncrementRefusedReadCount()

	assert.True(s.flush())
	assert.Contains(out.String(), "stats")
	assert.Contains(out.String(), "written_per_sec=3")
	assert.Contains(out.String(), "read_per_sec=1")
	assert.Contains(out.String(), "refused_writes=1")

	assert.False(s.flush())
}

func Test_Stats_RunStats(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	s := NewStats(NewWriterLogger("ring", "test", out))
	s.interval = 10 * time.Millisecond

	s.IncrementWriteCount()

	ctx, cancelCtx := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelCtx()

	s.RunStats(ctx)

	assert.Contains(out.String(), "written_per_sec=1")
}
