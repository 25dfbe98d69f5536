// Command warehouse is the final pipeline stage: it derives the star schema
// from the standardized table and fully replaces the warehouse contents.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"insurancedw/internal/cli"
	"insurancedw/internal/warehouse"

	// register all storage backends with the factory; config selects one.
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

	start := time.Now()
	sum, err := warehouse.Run(context.Background(), cfg)
	if err != nil {
		cli.Fatalf("%v", err)
	}

	log.Printf("warehouse: input=%s dim_date=%d dim_address=%d dim_customer=%d dim_policy=%d fact=%d",
		sum.Input, sum.Tables.DimDate, sum.Tables.DimAddress,
		sum.Tables.DimCustomer, sum.Tables.DimPolicy, sum.Tables.Fact)
	if *verbose {
		log.Printf("warehouse: kind=%s dsn=%s", cfg.Warehouse.Kind, cfg.Warehouse.DSN)
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
