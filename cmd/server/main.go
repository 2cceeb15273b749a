package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	handler "github.com/referendum/api/internal/adapters/handler/http"
	repo "github.com/referendum/api/internal/adapters/repository/postgres"
	"github.com/referendum/api/internal/config"
	"github.com/referendum/api/internal/core/services"
	"github.com/referendum/api/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.New(cfg.IsDevEnvironment())
	defer logg.Sync()

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		logg.Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logg.Fatalw("failed to ping database", "error", err)
	}

	voterRepo := repo.NewVoterRepository(db)
	codeRepo := repo.NewCodeRepository(db)
	refRepo := repo.NewReferendumRepository(db)
	voteRepo := repo.NewVoteRepository(db)

	registrationSvc := services.NewRegistrationService(voterRepo, codeRepo)
	authSvc := services.NewAuthService(voterRepo, []byte(cfg.JWTSecret))
	refSvc := services.NewReferendumService(refRepo, voteRepo)
	voteSvc := services.NewVoteService(refRepo, voteRepo, voterRepo)
	statsSvc := services.NewStatsService(voterRepo, voteRepo, refRepo)

	router := handler.NewHandler(
		authSvc,
		handler.NewAuthHandler(registrationSvc, authSvc, logg),
		handler.NewReferendumHandler(refSvc, logg),
		handler.NewVoteHandler(voteSvc, logg),
		handler.NewStatsHandler(statsSvc, logg),
		handler.NewMSLRHandler(refSvc, logg),
	)

	server := &stdhttp.Server{Addr: cfg.ServerAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Infow("server listening", "addr", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logg.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Fatalw("shutdown error", "error", err)
	}
}
