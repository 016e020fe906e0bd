package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/platform"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to farmsense_audit.db")
	domain := flag.String("domain", "", "filter to one domain")
	kpis := flag.Bool("kpis", false, "show aggregated KPIs instead of records")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/farmsense_audit.db [--domain name] [--kpis] [--json]")
		os.Exit(2)
	}

	store, err := audit.NewSQLStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *kpis {
		err = runKPIMode(store, *domain, *jsonOut)
	} else {
		err = runListMode(store, *domain, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(store *audit.SQLStore, domain string, jsonOut bool) error {
	recs, err := store.ListAll()
	if err != nil {
		return err
	}

	filtered := recs[:0]
	for _, rec := range recs {
		if domain != "" && !strings.EqualFold(rec.Domain, domain) {
			continue
		}
		filtered = append(filtered, rec)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].IssuedAt.Before(filtered[j].IssuedAt)
	})

	if jsonOut {
		out, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, rec := range filtered {
		confirmed := ""
		if rec.ConfirmedAt != nil {
			confirmed = "confirmed"
		}
		fmt.Printf("%s  %-12s %-8s %-8s %s %s\n",
			rec.IssuedAt.Format("2006-01-02 15:04:05"),
			rec.Domain, rec.Base, rec.Urgency(), rec.AuditLogID, confirmed)
	}
	fmt.Printf("%d records\n", len(filtered))
	return nil
}

// #endregion list-mode

// #region kpi-mode

func runKPIMode(store *audit.SQLStore, domain string, jsonOut bool) error {
	p := platform.New(engine.NewRegistry(thresholds.Default()), store, nil, nil)
	aggregated, err := p.AggregateKPIs(domain)
	if err != nil {
		return err
	}

	if jsonOut {
		out, err := json.MarshalIndent(aggregated, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	names := make([]string, 0, len(aggregated))
	for name := range aggregated {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-32s %.2f\n", name, aggregated[name])
	}
	return nil
}

// #endregion kpi-mode
