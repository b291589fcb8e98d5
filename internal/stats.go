package internal

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats accumulates buffer traffic and logs it once per interval.
type Stats struct {
	l *Logger

	interval time.Duration

	writeCount        atomic.Uint64
	readCount         atomic.Uint64
	refusedWriteCount atomic.Uint64
	refusedReadCount  atomic.Uint64
}

func NewStats(l *Logger) *Stats {
	return &Stats{
		l: l,

		interval: time.Second,
	}
}

func (s *Stats) RunStats(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush()
		}
	}
}

// flush logs and resets the counters, it returns false if there was nothing to log.
func (s *Stats) flush() bool {
	writeCount := s.writeCount.Swap(0)
	readCount := s.readCount.Swap(0)
	refusedWrites := s.refusedWriteCount.Swap(0)
	refusedReads := s.refusedReadCount.Swap(0)

	if writeCount == 0 && readCount == 0 && refusedWrites == 0 && refusedReads == 0 {
		return false
	}

	s.l.Info("stats",
		"written_per_sec", writeCount, "read_per_sec", readCount,
		"refused_writes", refusedWrites, "refused_reads", refusedReads,
	)

	return true
}

func (s *Stats) IncrementWriteCount() {
	s.writeCount.Add(1)
}

func (s *Stats) IncrementReadCount() {
	s.readCount.Add(1)
}

func (s *Stats) IncrementRefusedWriteCount() {
	s.refusedWriteCount.Add(1)
}

func (s *Stats) IncrementRefusedReadCount() {
	s.refusedReadCount.Add(1)
}
