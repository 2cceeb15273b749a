package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	repo "github.com/referendum/api/internal/adapters/repository/postgres"
	"github.com/referendum/api/internal/config"
	"github.com/referendum/api/internal/core/domain"
	"golang.org/x/crypto/bcrypt"
)

const ecAdmissionCode = "EC-ADMIN-CODE"

type seedConfig struct {
	Email    string `env:"EC_EMAIL,notEmpty"`
	Password string `env:"EC_PASSWORD,notEmpty"`
	Name     string `env:"EC_NAME" envDefault:"Election Commission"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbCfg, err := config.LoadDB()
	if err != nil {
		log.Fatal(err)
	}

	var seedCfg seedConfig
	if err := env.Parse(&seedCfg); err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", dbCfg.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	voterRepo := repo.NewVoterRepository(db)
	codeRepo := repo.NewCodeRepository(db)

	existing, err := voterRepo.GetAnyByRole(ctx, domain.RoleEC)
	if err != nil {
		log.Fatal(err)
	}
	if existing != nil {
		fmt.Println("EC account already exists:", existing.Email)
		return
	}

	// The EC admission code is seeded already used so it can never be
	// consumed by a public registration.
	if err := codeRepo.Ensure(ctx, ecAdmissionCode, true); err != nil {
		log.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedCfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	ec := &domain.Voter{
		Name:          seedCfg.Name,
		Email:         seedCfg.Email,
		PasswordHash:  string(hash),
		DateOfBirth:   time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		AdmissionCode: ecAdmissionCode,
		Role:          domain.RoleEC,
	}

	if err := voterRepo.Create(ctx, ec); err != nil {
		log.Fatal(err)
	}

	fmt.Println("EC account created successfully:", ec.Email)
}
