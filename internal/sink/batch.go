package sink

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Batcher groups rows into fixed-size batches and flushes each full batch to
// a Sink. The run loop is synchronous, so this is a push API: Add until the
// input is exhausted, then Flush once for the remainder.
//
// A concise progress line with running totals and instantaneous rows/sec is
// logged on every flush.
type Batcher struct {
	sink    Sink
	columns []string
	batch   [][]string

	total   int64
	batches int64

	start     time.Time
	lastFlush time.Time
	lastTotal int64
}

// NewBatcher returns a Batcher writing to s with the given batch size.
func NewBatcher(s Sink, columns []string, batchSize int) (*Batcher, error) {
	if s == nil {
		return nil, fmt.Errorf("sink must not be nil")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batchSize must be > 0")
	}
	now := time.Now()
	return &Batcher{
		sink:      s,
		columns:   columns,
		batch:     make([][]string, 0, batchSize),
		start:     now,
		lastFlush: now,
	}, nil
}

// Add appends one row, flushing when the batch is full. Rows must be aligned
// to the Batcher's columns.
func (b *Batcher) Add(ctx context.Context, row []string) error {
	b.batch = append(b.batch, row)
	if len(b.batch) >= cap(b.batch) {
		return b.Flush(ctx)
	}
	return nil
}

// Flush writes any buffered rows. It is safe to call with an empty buffer and
// must be called once after the last Add.
func (b *Batcher) Flush(ctx context.Context) error {
	if len(b.batch) == 0 {
		return nil
	}

	n, err := b.sink.WriteRows(ctx, b.columns, b.batch)
	b.total += n
	b.batch = b.batch[:0] // keep capacity

	if err != nil {
		log.Printf("sink: write failed after=%d total=%d err=%v", n, b.total, err)
		return err
	}

	b.batches++
	now := time.Now()
	sinceLast := now.Sub(b.lastFlush)
	rps := float64(0)
	if sinceLast > 0 {
		rps = float64(b.total-b.lastTotal) / sinceLast.Seconds()
	}
	log.Printf(
		"batch #%d: rps=%.0f written=%d total_written=%d elapsed=%s",
		b.batches, rps, n, b.total, now.Sub(b.start).Truncate(time.Millisecond),
	)
	b.lastFlush = now
	b.lastTotal = b.total

	return nil
}

// Total reports the number of rows written so far.
func (b *Batcher) Total() int64 { return b.total }

// Batches reports the number of flushed batches so far.
func (b *Batcher) Batches() int64 { return b.batches }
