package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	// The UNIQUE constraints on email and cognito_sub are load-bearing:
	// the signup existence-check-then-create sequence is racy and the
	// database is the final arbiter against duplicate accounts.
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			cognito_sub TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			dob DATE,
			street_line_1 TEXT NOT NULL DEFAULT '',
			street_line_2 TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state VARCHAR(2) NOT NULL DEFAULT '',
			postal_code VARCHAR(10) NOT NULL DEFAULT '',
			country VARCHAR(2) NOT NULL DEFAULT '',
			phone_country_code VARCHAR(5) NOT NULL DEFAULT '',
			phone_number VARCHAR(20) NOT NULL DEFAULT '',
			gender VARCHAR(50) NOT NULL DEFAULT 'declinedToAnswer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at DESC);
	`

	_, err := conn.Exec(ctx, query)
	return err
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, "DROP TABLE IF EXISTS users CASCADE")
	return err
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// Development-only fixture; the cognito_sub values do not correspond
	// to real provider identities.
	query := `
		INSERT INTO users (id, cognito_sub, email)
		VALUES
			(gen_random_uuid(), 'seed-sub-1', 'alice@example.com'),
			(gen_random_uuid(), 'seed-sub-2', 'bob@example.com')
		ON CONFLICT (email) DO NOTHING
	`

	_, err := conn.Exec(ctx, query)
	return err
}
