package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/store"
	"github.com/talentscout/screener/pkg/repository"
)

// Strips personal data from one candidate record, keeping the technical
// assessment intact.
func main() {
	id := flag.String("id", "", "candidate id to anonymize")
	flag.Parse()

	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: anonymize -id <candidate-id>")
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

	if err := s.Anonymize(ctx, *id); err != nil {
		fmt.Fprintf(os.Stderr, "Anonymize error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Candidate %s anonymized.\n", *id)
}

func openStore(ctx context.Context, cfg *config.Config) (repository.CandidateStore, func() error, error) {
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
