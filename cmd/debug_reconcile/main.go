package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"datajoin/core/config"
	"datajoin/core/database"
	"datajoin/core/reconcile"
	"datajoin/core/storage"
	"datajoin/feature/assets"
	"datajoin/feature/tables"
)

// Loads every configured source twice and dumps both reports. The second report
// of a stable source must show no entered, exited, or changed identities.
// An optional argument names an identity to look up in each source.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	var lookup string
	if len(os.Args) > 1 {
		lookup = os.Args[1]
	}

	ctx := context.Background()
	output := map[string]interface{}{}

	fmt.Println("=== Storage Listing ===")
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		fmt.Printf("storage unavailable: %v\n", err)
	} else {
		svc := assets.NewService(client, cfg.Storage.Bucket, cfg.Reconcile, nil)
		output["assets"] = syncTwice(ctx, svc.Tracker())
		if lookup != "" {
			found := false
			list, _ := svc.Assets()
			for _, a := range list {
				if a.Key == lookup || a.Name == lookup {
					fmt.Printf("FOUND in storage: key=%s etag=%s size=%d\n", a.Key, a.ETag, a.Size)
					found = true
				}
			}
			if !found {
				fmt.Printf("%s NOT FOUND in storage\n", lookup)
			}
		}
	}

	fmt.Println("\n=== Database Table ===")
	if cfg.Reconcile.Table == "" {
		fmt.Println("no table configured")
	} else if db, err := database.Connect(cfg.Database); err != nil {
		fmt.Printf("database unavailable: %v\n", err)
	} else if svc, err := tables.NewService(db, cfg.Reconcile, nil); err != nil {
		fmt.Printf("table source invalid: %v\n", err)
	} else {
		output["table"] = syncTwice(ctx, svc.Tracker())
		if lookup != "" {
			if row, err := svc.Row(lookup); err != nil {
				fmt.Printf("%s NOT FOUND in table: %v\n", lookup, err)
			} else {
				fmt.Printf("FOUND in table: key=%s columns=%v\n", row.Key, row.Columns)
			}
		}
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_reconcile.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_reconcile.json for details.")
}

func syncTwice(ctx context.Context, s reconcile.Syncer) []*reconcile.Report {
	var reports []*reconcile.Report
	for i := 0; i < 2; i++ {
		report, err := s.Sync(ctx)
		if err != nil {
			fmt.Printf("sync %d of %s failed: %v\n", i+1, s.Name(), err)
			return reports
		}
		fmt.Printf("sync %d of %s: total=%d entered=%d changed=%d exited=%d\n", i+1, s.Name(),
			report.Summary.Total, report.Summary.Entered, report.Summary.Changed, report.Summary.Exited)
		reports = append(reports, report)
	}
	return reports
}
