package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"

	"visit-tracker/internal/config"
	"visit-tracker/internal/repository"
	"visit-tracker/pkg/database"
	"visit-tracker/pkg/logger"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|import-log]"

func main() {
	// Load configuration (reads .env when present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "import-log":
		n, err := importLocalLog(ctx, conn, cfg)
		if err != nil {
			log.Fatalf("Failed to import local visit log: %v", err)
		}
		fmt.Printf("✅ Imported %d visits from %s\n", n, cfg.LogFile)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	for _, query := range database.VisitsSchema {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getTableName(query))
	}

	return nil
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	for _, query := range database.VisitsTeardown {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

// importLocalLog copies the local visit log into the visits table in one transaction
func importLocalLog(ctx context.Context, conn *pgx.Conn, cfg *config.Config) (int, error) {
	local := repository.NewLocalVisitRepository(cfg.CounterFile, cfg.LogFile, logger.NewNop())
	records, err := local.ReadRawLog()
	if err != nil {
		return 0, fmt.Errorf("failed to read local log: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(
			`INSERT INTO visits (visited_at, ip_address, user_agent, note) VALUES ($1, $2, $3, $4)`,
			record.Timestamp, record.IPAddress, record.UserAgent, "imported",
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert visits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return len(records), nil
}

func getTableName(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}
