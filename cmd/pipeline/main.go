// Command pipeline runs the full ETL sequence against a single configuration:
// ingest, clean, standardize, the optional country pass, then the warehouse
// rebuild. Stages run strictly in order and the run stops at the first error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"insurancedw/internal/clean"
	"insurancedw/internal/cli"
	"insurancedw/internal/country"
	"insurancedw/internal/ingest"
	"insurancedw/internal/standardize"
	"insurancedw/internal/warehouse"

	_ "insurancedw/internal/storage/all"
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

	ctx := context.Background()
	start := time.Now()

	ing, err := ingest.Run(ctx, cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	log.Printf("ingest: files=%d/%d rows=%d -> %s",
		ing.FilesRead, ing.FilesScanned, ing.Rows, ing.CombinedFile)

	cln, err := clean.Run(ctx, cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	log.Printf("clean: rows=%d/%d duplicates_dropped=%d -> %s",
		cln.CleanedRows, cln.InputRows, cln.DuplicatesDropped, cln.CleanedFile)

	std, err := standardize.Run(ctx, cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	log.Printf("standardize: rows=%d missing_customer_id=%d missing_policy_id=%d -> %s",
		std.RowsOut, std.MissingCustomerID, std.MissingPolicyID, std.StandardizedFile)

	if cfg.Country.Fix {
		fix, err := country.Run(ctx, cfg)
		if err != nil {
			cli.Fatalf("%v", err)
		}
		log.Printf("country: rows=%d -> %s", fix.Rows, fix.FixedFile)
	}

	wh, err := warehouse.Run(ctx, cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	log.Printf("warehouse: dim_date=%d dim_address=%d dim_customer=%d dim_policy=%d fact=%d",
		wh.Tables.DimDate, wh.Tables.DimAddress, wh.Tables.DimCustomer,
		wh.Tables.DimPolicy, wh.Tables.Fact)

	if *verbose {
		log.Printf("pipeline completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
