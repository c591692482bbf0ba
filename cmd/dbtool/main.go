package main

import (
	"context"
	"database/sql"
	"dispatch-sim/internal/adapters/repositories"
	"dispatch-sim/internal/config"
	"dispatch-sim/internal/platform/db"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres report schema and can list stored summaries.
func main() {
	list := flag.Int("list", 0, "print the N most recent report summaries after schema init")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initSchema(conn); err != nil {
		log.Fatal(err)
	}

	if *list > 0 {
		if err := printSummaries(conn, *list); err != nil {
			log.Fatal(err)
		}
	}
}

func initSchema(conn *sql.DB) error {
	log.Println("Initializing report schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func printSummaries(conn *sql.DB, limit int) error {
	repo := repositories.NewSQLReportRepository(conn, repositories.Postgres)
	sums, err := repo.ListSummaries(context.Background(), limit)
	if err != nil {
		return err
	}
	for _, s := range sums {
		eff := "-"
		if s.Efficiency != nil {
			eff = fmt.Sprintf("%.2f", *s.Efficiency)
		}
		fmt.Printf("%s\t%s\t%s\t%d\t%.2f\t%s\n", s.RunID, s.Scenario, s.BestAgent, s.PackagesDelivered, s.TotalDistance, eff)
	}
	return nil
}
