// Command ingest is the first pipeline stage: it scans the raw CSV tree and
// writes the combined, provenance-tagged staging artifact.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"insurancedw/internal/cli"
	"insurancedw/internal/config"
	"insurancedw/internal/ingest"
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
	sum, err := ingest.Run(context.Background(), cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}

	log.Printf("ingest: files_scanned=%d files_read=%d rows=%d failed=%d file=%s",
		sum.FilesScanned, sum.FilesRead, sum.Rows, len(sum.FailedFiles), sum.CombinedFile)
	for _, ff := range sum.FailedFiles {
		log.Printf("ingest: failed %s: %s", ff.Path, ff.Error)
	}
	if *verbose {
		log.Printf("ingest: summary written to %s", cfg.StagingPath(config.IngestSummaryFile))
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
