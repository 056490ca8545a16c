package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/store"
)

// Removes candidate records older than the retention window.
func main() {
	days := flag.Int("days", 365, "remove records older than this many days")
	flag.Parse()

	if *days <= 0 {
		fmt.Fprintln(os.Stderr, "days must be positive")
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	s, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store error: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	removed, err := s.PurgeOlderThan(ctx, *days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Purge error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Purged %d candidate record(s) older than %d days.\n", removed, *days)
}

func openStore(ctx context.Context, cfg *config.Config) (interface {
	PurgeOlderThan(context.Context, int) (int, error)
}, func() error, error) {
	if cfg.StorageBackend == "sqlite" {
		s, err := store.NewSQLiteStore(ctx, cfg.DatabasePath, nil)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	s, err := store.NewJSONStore(cfg.CandidatesFile, nil)
	if err != nil {
		return nil, nil, err
	}
	return s, func() error { return nil }, nil
}
