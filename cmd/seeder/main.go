package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/gardenal/internal/auth"
	"github.com/mauv0809/gardenal/internal/database"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	sample      bool
	playerCount int
	matchCount  int
	seed        uint64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed the league database with an admin and optional sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&sample, "sample", false, "Also create fake players and finished matches")
	rootCmd.Flags().IntVar(&playerCount, "players", 12, "Number of fake players to create with --sample")
	rootCmd.Flags().IntVar(&matchCount, "matches", 20, "Number of matches to play with --sample")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for sample data (0 picks one)")
}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "gardenal.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	for _, key := range []string{"SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD"} {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
		config[key] = value
	}
	return config
}

func run(ctx context.Context) error {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer teardown()

	players := player.New(db)
	if err := seedAdmin(ctx, players, cfg["SEED_ADMIN_EMAIL"], cfg["SEED_ADMIN_PASSWORD"]); err != nil {
		return err
	}
	if !sample {
		return nil
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	faker := gofakeit.New(seed)
	log.Info("Seeding sample data", "players", playerCount, "matches", matchCount, "seed", seed)

	ids, err := seedPlayers(ctx, players, faker, playerCount)
	if err != nil {
		return err
	}
	if len(ids) < 4 {
		return fmt.Errorf("need at least 4 players to play matches, have %d", len(ids))
	}

	ledgerSvc := ledger.New(ledger.NewStore(db), players, nil, metrics.NewService(prometheus.NewRegistry()), ledger.Options{})
	startTime := time.Now()
	for i := 0; i < matchCount; i++ {
		if err := playMatch(ctx, ledgerSvc, faker, ids); err != nil {
			return err
		}
	}
	log.Info("Successfully played all sample matches.", "total", matchCount, "duration", time.Since(startTime))
	return nil
}

func seedAdmin(ctx context.Context, players player.Store, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid admin password: %w", err)
	}
	admin := &player.Player{Email: email, Name: "Admin", Role: player.RoleAdmin, PasswordHash: hash}
	err = players.Create(ctx, admin)
	if errors.Is(err, player.ErrEmailInUse) {
		log.Info("Admin already exists, skipping", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Info("Created admin", "id", admin.ID, "email", admin.Email)
	return nil
}

// seedPlayers creates n fake players, all sharing the password "password123".
func seedPlayers(ctx context.Context, players player.Store, faker *gofakeit.Faker, n int) ([]string, error) {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return nil, err
	}
	var ids []string
	for i := 0; i < n; i++ {
		first, last := faker.FirstName(), faker.LastName()
		p := &player.Player{
			Name:         first + " " + last,
			Email:        strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, i)),
			Role:         player.RoleUser,
			PasswordHash: hash,
		}
		if err := players.Create(ctx, p); err != nil {
			if errors.Is(err, player.ErrEmailInUse) {
				continue
			}
			return nil, fmt.Errorf("failed to create player %s: %w", p.Name, err)
		}
		ids = append(ids, p.ID)
	}
	log.Info("Created sample players", "count", len(ids))
	return ids, nil
}

// playMatch picks four random players and records rounds until one team reaches the threshold.
func playMatch(ctx context.Context, svc *ledger.Service, faker *gofakeit.Faker, ids []string) error {
	pool := append([]string{}, ids...)
	faker.ShuffleAnySlice(pool)

	m, err := svc.CreateMatch(ctx, pool[0], pool[0:2], pool[2:4])
	if err != nil {
		return fmt.Errorf("failed to create sample match: %w", err)
	}
	for !m.Finished {
		// One side scores per hand.
		var a, b int
		if faker.Bool() {
			a = faker.Number(5, 40)
		} else {
			b = faker.Number(5, 40)
		}
		m, err = svc.AddRound(ctx, m.ID, a, b, pool[faker.Number(0, 3)])
		if err != nil {
			return fmt.Errorf("failed to record sample round: %w", err)
		}
	}
	log.Info("Played sample match", "matchID", m.ID, "winner", m.WinnerTeam, "totalA", m.TotalA, "totalB", m.TotalB)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal("Seeder failed", "error", err)
	}
}
