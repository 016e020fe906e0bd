package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/replay"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to farmsense_audit.db")
	auditID := flag.String("id", "", "audit log id to reconstruct")
	all := flag.Bool("all", false, "reconstruct and verify every stored record")
	thresholdsPath := flag.String("thresholds", "", "optional threshold overlay YAML")
	flag.Parse()

	if *dbPath == "" || (*auditID == "" && !*all) {
		fmt.Fprintln(os.Stderr, "usage: reconstruct --db path/to/farmsense_audit.db --id <audit_log_id>")
		fmt.Fprintln(os.Stderr, "       reconstruct --db path/to/farmsense_audit.db --all")
		os.Exit(2)
	}

	cat := thresholds.Default()
	if *thresholdsPath != "" {
		var err error
		cat, err = thresholds.Load(*thresholdsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load thresholds: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := audit.NewSQLStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	recon := replay.NewReconstructor(store, engine.NewRegistry(cat))

	var exitCode int
	if *all {
		exitCode = runAll(store, recon)
	} else {
		exitCode = runOne(recon, *auditID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region run-one

func runOne(recon *replay.Reconstructor, id string) int {
	result, err := recon.Reconstruct(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconstruct: %v\n", err)
		return 1
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if !result.Match {
		fmt.Fprintln(os.Stderr, "MISMATCH: replayed verdict differs from the stored record")
		return 1
	}
	return 0
}

// #endregion run-one

// #region run-all

func runAll(store *audit.SQLStore, recon *replay.Reconstructor) int {
	recs, err := store.ListAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return 1
	}

	mismatches := 0
	for _, rec := range recs {
		result, err := recon.Reconstruct(rec.AuditLogID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reconstruct %s: %v\n", rec.AuditLogID, err)
			mismatches++
			continue
		}
		status := "ok"
		if !result.Match {
			status = "MISMATCH"
			mismatches++
		}
		fmt.Printf("%s  %-12s %-8s %s\n", rec.AuditLogID, rec.Domain, rec.Base, status)
	}

	fmt.Printf("%d records, %d mismatches\n", len(recs), mismatches)
	if mismatches > 0 {
		return 1
	}
	return 0
}

// #endregion run-all
