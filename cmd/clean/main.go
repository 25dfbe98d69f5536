// Command clean is the second pipeline stage: it normalizes and coalesces
// columns, parses typed fields, computes derived fields and the row hash, and
// drops exact duplicates.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"insurancedw/internal/clean"
	"insurancedw/internal/cli"
)

func main() {
	cfgPath := flag.String("config", "configs/pipeline.json", "pipeline config JSON path")
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, ok := cli.LoadConfig(*cfgPath)
	if !ok {
		cli.Fatalf("configuration is invalid: %s", *cfgPath)
	}
	if *validate {
		log.Printf("configuration is valid: %s", *cfgPath)
		os.Exit(0)
	}

	start := time.Now()
	sum, err := clean.Run(context.Background(), cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}

	log.Printf("clean: rows_in=%d rows_out=%d duplicates_dropped=%d file=%s",
		sum.InputRows, sum.CleanedRows, sum.DuplicatesDropped, sum.CleanedFile)
	if *verbose {
		log.Printf("clean: date_columns=%v hash_columns=%v", sum.ParsedDateColumns, sum.HashColumns)
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
