package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"expvote/internal/repository"
	"expvote/pkg/database"

	"github.com/joho/godotenv"
)

const usage = "Usage: migrate [up|drop|reset|seed account=amount...]"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := database.Apply(ctx, db.Pool, database.SchemaStatements); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := database.Apply(ctx, db.Pool, database.DropStatements); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "reset":
		statements := append(append([]string{}, database.DropStatements...), database.SchemaStatements...)
		if err := database.Apply(ctx, db.Pool, statements); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
		fmt.Println("✅ All tables recreated successfully")

	case "seed":
		grants, err := parseGrants(os.Args[2:])
		if err != nil {
			log.Fatalf("Invalid seed arguments: %v", err)
		}
		if err := seedBalances(ctx, repository.NewPostgresStore(db), grants); err != nil {
			log.Fatalf("Failed to seed balances: %v", err)
		}
		fmt.Printf("✅ Seeded %d balances\n", len(grants))

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

type grant struct {
	account string
	amount  int64
}

// parseGrants reads account=amount pairs
func parseGrants(args []string) ([]grant, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one account=amount pair is required")
	}

	grants := make([]grant, 0, len(args))
	for _, arg := range args {
		account, raw, ok := strings.Cut(arg, "=")
		account = strings.TrimSpace(account)
		if !ok || account == "" {
			return nil, fmt.Errorf("expected account=amount, got %q", arg)
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("amount for %q must be a positive integer, got %q", account, raw)
		}
		grants = append(grants, grant{account: account, amount: amount})
	}
	return grants, nil
}

// seedBalances credits every grant in one transaction
func seedBalances(ctx context.Context, store repository.Transactor, grants []grant) error {
	return store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		for _, g := range grants {
			if err := tx.Ledger().Credit(ctx, g.account, g.amount); err != nil {
				return fmt.Errorf("credit %s: %w", g.account, err)
			}
		}
		return nil
	})
}
