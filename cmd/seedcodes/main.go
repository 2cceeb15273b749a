package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	repo "github.com/referendum/api/internal/adapters/repository/postgres"
	"github.com/referendum/api/internal/config"
)

// admissionCodes is the pre-issued pool of one-time registration codes.
var admissionCodes = []string{
	"0IXYCAH8UW",
	"12EOU5RGVX",
	"1AZN0FXJVM",
	"46HJV9KH1F",
	"4XRDN9O4AW",
	"921664ML8D",
	"9IJKHGHJK4",
	"A546AKU16A",
	"GKJ3K1YBGE",
	"IGBQET8OOY",
	"IKKSZYJTSH",
	"JOV50TOSYR",
	"N5J53QK9FO",
	"R2ZHBUYO2V",
	"S6K3AV3IVR",
	"SDUBJ5IOYB",
	"V0GB2G690L",
	"YFUVLYBQZR",
	"Z9HOC1LF4X",
	"ZDN06T01V9",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbCfg, err := config.LoadDB()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", dbCfg.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	codeRepo := repo.NewCodeRepository(db)

	for _, code := range admissionCodes {
		if err := codeRepo.Ensure(ctx, code, false); err != nil {
			log.Fatalf("Failed to seed code %s: %v", code, err)
		}
	}

	fmt.Println("Admission codes inserted/ensured successfully.")
}
