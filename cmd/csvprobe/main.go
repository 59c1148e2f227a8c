// Command csvprobe samples a local CSV file, profiles its columns, and
// suggests which transformations fit. With -json it prints a ready-to-edit
// pipeline config for the csvtransform binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"csvtransform/internal/probe"
)

var (
	flagPath      = flag.String("input", "", "path of the CSV file to sample")
	flagBytes     = flag.Int("bytes", 256<<10, "number of bytes to sample from the start of the file")
	flagRows      = flag.Int("rows", 1000, "maximum number of data rows to profile")
	flagDelimiter = flag.String("delimiter", ",", "CSV field delimiter (single character)")
	flagJSON      = flag.Bool("json", false, "output a suggested pipeline config instead of the text summary")
	flagJob       = flag.String("job", "", "job name for the generated pipeline (default: derived from the file name)")
	flagOutput    = flag.String("output", "", "sink path for the generated pipeline (default: <input>_out.csv)")
)

func main() {
	flag.Parse()

	delim := ','
	if *flagDelimiter != "" {
		if r, _ := utf8.DecodeRuneInString(*flagDelimiter); r != utf8.RuneError {
			delim = r
		}
	}

	res, err := probe.Probe(context.Background(), probe.Options{
		Path:      *flagPath,
		MaxBytes:  *flagBytes,
		MaxRows:   *flagRows,
		Delimiter: delim,
		JSON:      *flagJSON,
		Job:       *flagJob,
		Output:    *flagOutput,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Print(string(res.Body))
}
