package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"csvtransform/internal/config"
	"csvtransform/internal/datasource/file"
	"csvtransform/internal/metrics"
	csvparser "csvtransform/internal/parser/csv"
	"csvtransform/internal/sink"
	"csvtransform/internal/transform"
)

// defaultBatchSize is used when runtime.batch_size is unset.
const defaultBatchSize = 500

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newSinkFn = func(ctx context.Context, cfg sink.Config) (sink.Sink, error) {
		return sink.New(ctx, cfg)
	}

	openSourceFn = openSource
)

// run executes a full read → transform → write pass over the pipeline.
//
// The pass is streaming and single-threaded: rows never accumulate beyond one
// sink batch, and identifier aliases are assigned in input order so a given
// file always produces the same aliases. Any read, transform, or write error
// aborts the run; the sink may then hold a prefix of the output, which is why
// the summary is only logged on success.
func run(ctx context.Context, p config.Pipeline) (err error) {
	jobStart := time.Now()
	defer func() { metrics.RecordStep(p.Job, "run", err, time.Since(jobStart)) }()

	openStart := time.Now()
	src, err := openSourceFn(ctx, p)
	metrics.RecordStep(p.Job, "source_open", err, time.Since(openStart))
	if err != nil {
		return fmt.Errorf("source open: %w", err)
	}
	defer src.Close()

	r, err := csvparser.NewReader(src, parserOptions(p.Parser))
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	engine, err := transform.NewEngine(r.Header(), p.Transform.Columns, p.Transform.ColumnOrder)
	if err != nil {
		return err
	}

	sinkStart := time.Now()
	snk, err := newSinkFn(ctx, sinkConfig(p, engine.Columns()))
	metrics.RecordStep(p.Job, "sink_open", err, time.Since(sinkStart))
	if err != nil {
		return fmt.Errorf("sink open: %w", err)
	}
	defer func() {
		if cerr := snk.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sink close: %w", cerr)
		}
	}()

	batchSize := p.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	b, err := sink.NewBatcher(snk, engine.Columns(), batchSize)
	if err != nil {
		return err
	}

	var read, transformed int64
	for {
		row, rerr := r.Next()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			metrics.RecordRows(p.Job, "parse_errors", 1)
			err = fmt.Errorf("read line %d: %w", r.Line(), rerr)
			break
		}
		read++

		out, terr := engine.TransformRow(row)
		if terr != nil {
			err = fmt.Errorf("line %d: %w", r.Line(), terr)
			break
		}
		transformed++

		if werr := b.Add(ctx, out); werr != nil {
			err = fmt.Errorf("write: %w", werr)
			break
		}
	}
	if ferr := b.Flush(ctx); ferr != nil && err == nil {
		err = fmt.Errorf("write: %w", ferr)
	}

	metrics.RecordRows(p.Job, "read", read)
	metrics.RecordRows(p.Job, "transformed", transformed)
	metrics.RecordRows(p.Job, "written", b.Total())
	metrics.RecordRows(p.Job, "ids_assigned", int64(engine.Transformer().IDs().Len()))
	metrics.RecordBatches(p.Job, b.Batches())

	if err != nil {
		return err
	}

	log.Printf(
		"summary: job=%s read=%d written=%d batches=%d ids_assigned=%d elapsed=%s",
		p.Job, read, b.Total(), b.Batches(), engine.Transformer().IDs().Len(),
		time.Since(jobStart).Truncate(time.Millisecond),
	)
	return nil
}

func openSource(ctx context.Context, p config.Pipeline) (io.ReadCloser, error) {
	switch p.Source.Kind {
	case "", "file":
		return file.NewLocal(p.Source.File.Path).Open(ctx)
	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
}

// parserOptions maps the free-form parser config onto CSV reader options.
func parserOptions(p config.Parser) csvparser.Options {
	return csvparser.Options{
		Comma:           p.Options.Rune("comma", ','),
		TrimSpace:       p.Options.Bool("trim_space", false),
		LazyQuotes:      p.Options.Bool("lazy_quotes", false),
		FieldsPerRecord: p.Options.Int("fields_per_record", 0),
	}
}

// sinkConfig maps the pipeline's sink section onto the factory config. The
// sink writes the engine's output columns, not the input header.
func sinkConfig(p config.Pipeline, columns []string) sink.Config {
	kind := p.Sink.Kind
	if kind == "" {
		kind = "csv"
	}
	return sink.Config{
		Kind:            kind,
		Path:            p.Sink.CSV.Path,
		DSN:             p.Sink.DB.DSN,
		Table:           p.Sink.DB.Table,
		Columns:         columns,
		AutoCreateTable: p.Sink.DB.AutoCreateTable,
	}
}
