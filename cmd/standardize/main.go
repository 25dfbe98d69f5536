// Command standardize is the third pipeline stage: it maps the cleaned table
// onto the canonical 26-column schema and reports key-integrity issues.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"insurancedw/internal/cli"
	"insurancedw/internal/standardize"
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
	sum, err := standardize.Run(context.Background(), cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}

	log.Printf("standardize: rows_in=%d rows_out=%d missing_customer_id=%d missing_policy_id=%d file=%s",
		sum.RowsIn, sum.RowsOut, sum.MissingCustomerID, sum.MissingPolicyID, sum.StandardizedFile)
	if sum.IssuesFile != nil {
		log.Printf("standardize: issues written to %s", *sum.IssuesFile)
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
