// Command csvtransform runs a column-wise CSV transformation pipeline:
// stable integer aliases for identifier columns, redacted names and emails,
// normalized dates, and optional column reordering, streamed row by row into
// a CSV or SQLite sink.
//
// It can run from a pipeline config file, or directly from -input/-output
// with the per-column choices made interactively.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"csvtransform/internal/config"
	"csvtransform/internal/datasource/file"
	"csvtransform/internal/metrics"
	"csvtransform/internal/metrics/prompush"
	csvparser "csvtransform/internal/parser/csv"
	"csvtransform/internal/prompt"

	// register all sink backends with the factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "csvtransform/internal/sink/all"
)

func main() {
	var (
		cfgPath           string
		inputPath         string
		outputPath        string
		interactive       bool
		validate          bool
		metricsBackendFlg string
		pushGatewayURLFlg string
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path")
	flag.StringVar(&inputPath, "input", "", "input CSV path (builds a pipeline without a config file)")
	flag.StringVar(&outputPath, "output", "", "output CSV path for -input mode (default <input>_out.csv)")
	flag.BoolVar(&interactive, "interactive", false, "ask per-column transformations on the terminal (-input mode)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (e.g. pushgateway, none; default env METRICS_BACKEND, else none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := buildPipeline(cfgPath, inputPath, outputPath, interactive)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	setupMetrics(p.Job, metricsBackendFlg, pushGatewayURLFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: job=%s source=%s parser=%s sink=%s",
			p.Job, p.Source.File.Path, p.Parser.Kind, p.Sink.Kind)
	}

	if err := run(ctx, p); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// buildPipeline resolves the pipeline: from a config file, or assembled from
// -input/-output, optionally asking per-column choices on the terminal.
func buildPipeline(cfgPath, inputPath, outputPath string, interactive bool) (config.Pipeline, error) {
	var p config.Pipeline

	switch {
	case cfgPath != "" && inputPath != "":
		return p, fmt.Errorf("-config and -input are mutually exclusive")

	case cfgPath != "":
		f, err := os.Open(cfgPath)
		if err != nil {
			return p, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&p); err != nil {
			return p, fmt.Errorf("decode config %s: %w", cfgPath, err)
		}
		return p, nil

	case inputPath != "":
		if outputPath == "" {
			ext := filepath.Ext(inputPath)
			outputPath = strings.TrimSuffix(inputPath, ext) + "_out" + ext
		}
		p = config.Pipeline{
			Job:    strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)),
			Source: config.Source{Kind: "file", File: config.SourceFile{Path: inputPath}},
			Parser: config.Parser{Kind: "csv"},
			Sink:   config.Sink{Kind: "csv", CSV: config.SinkCSV{Path: outputPath}},
		}
		if interactive {
			sel, err := askSelection(inputPath)
			if err != nil {
				return p, err
			}
			p.Transform.Columns = sel.Columns
			p.Transform.ColumnOrder = sel.ColumnOrder
		}
		return p, nil

	default:
		return p, fmt.Errorf("either -config or -input is required")
	}
}

// askSelection reads the input header and walks the user through the
// per-column menu.
func askSelection(inputPath string) (prompt.Selection, error) {
	rc, err := file.NewLocal(inputPath).Open(context.Background())
	if err != nil {
		return prompt.Selection{}, err
	}
	defer rc.Close()

	r, err := csvparser.NewReader(rc, csvparser.Options{})
	if err != nil {
		return prompt.Selection{}, err
	}
	return prompt.NewSession(os.Stdin, os.Stdout).Run(r.Header())
}

// resolveMetricsBackend picks the backend name: flag, then the
// METRICS_BACKEND env var, then disabled.
func resolveMetricsBackend(flagVal string) string {
	if flagVal == "" {
		flagVal = os.Getenv("METRICS_BACKEND")
	}
	if flagVal == "" {
		return "none"
	}
	return flagVal
}

// setupMetrics decides the metrics backend: flag → env → nop.
func setupMetrics(job, backendName, gatewayURL string, verbose bool) {
	backendName = resolveMetricsBackend(backendName)
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v backend=%v job=%v", gatewayURL, backendName, job)
		metrics.SetBackend(b)

	case "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
