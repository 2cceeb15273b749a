package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/referendum/api/internal/adapters/handler/http"
	repo "github.com/referendum/api/internal/adapters/repository/postgres"
	"github.com/referendum/api/internal/core/services"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	logg := zap.NewNop().Sugar()

	voterRepo := repo.NewVoterRepository(db)
	codeRepo := repo.NewCodeRepository(db)
	refRepo := repo.NewReferendumRepository(db)
	voteRepo := repo.NewVoteRepository(db)

	registrationSvc := services.NewRegistrationService(voterRepo, codeRepo)
	authSvc := services.NewAuthService(voterRepo, []byte(testJWTSecret))
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

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()

	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}

// seedCode inserts an unused admission code directly.
func (app *TestApp) seedCode(t *testing.T, code string) {
	t.Helper()

	_, err := app.DB.Exec("INSERT INTO admission_codes (code, used) VALUES ($1, FALSE)", code)
	require.NoError(t, err)
}

// createVoterAndToken seeds a voter row and returns its id and a
// signed bearer token, bypassing the registration flow.
func (app *TestApp) createVoterAndToken(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()

	voterID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", voterID)
	_, err := app.DB.Exec(`
		INSERT INTO voters (id, name, email, password_hash, dob, admission_code, role)
		VALUES ($1, $2, $3, 'x', '1990-01-01', 'SEEDED', $4)
	`, voterID, fmt.Sprintf("User %s", voterID), email, role)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   voterID.String(),
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return voterID, token
}

func (app *TestApp) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
