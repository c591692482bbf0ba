package main

import (
	"dispatch-sim/internal/adapters/delay"
	"dispatch-sim/internal/adapters/repositories"
	"dispatch-sim/internal/api"
	"dispatch-sim/internal/config"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/services"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the report repository behind its port and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	deps := api.Deps{
		DelayMin: delay.DefaultMin,
		DelayMax: delay.DefaultMax,
		DefaultJoin: &services.JoinPolicy{
			AgentID:  "AGENT_NEW",
			Location: domain.Point{X: 50, Y: 50},
			AtIndex:  -1,
		},
	}

	repo, db, err := repositories.Open(config.Get("DATABASE_URL", ""), config.Get("DB_PATH", "data/reports.db"))
	switch {
	case errors.Is(err, repositories.ErrNoStore):
		log.Println("No report store configured; simulations will not be persisted")
	case err != nil:
		log.Fatal(err)
	default:
		defer db.Close()
		deps.Repo = repo
		log.Printf("Report store ready dialect=%s", repo.Dialect)
	}

	router := api.NewRouter(deps)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
