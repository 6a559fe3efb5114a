// Command seed loads development customers into the privacy database and
// prints an access token for each of them.
//
// Run: go run ./services/privacy/cmd/seed
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	pkgconfig "github.com/doltnamn-se/doltnamn/pkg/config"
	"github.com/doltnamn-se/doltnamn/pkg/database"
	"github.com/doltnamn-se/doltnamn/pkg/logger"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/seed"
	"github.com/doltnamn-se/doltnamn/services/privacy/migrations"
)

type config struct {
	PostgresHost string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string        `env:"POSTGRES_USER" envDefault:"doltnamn"`
	PostgresPass string        `env:"POSTGRES_PASSWORD" envDefault:"doltnamn_secret"`
	PostgresDB   string        `env:"PRIVACY_DB_NAME" envDefault:"privacy_db"`
	PostgresSSL  string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:""`
	TokenTTL     time.Duration `env:"SEED_TOKEN_TTL" envDefault:"24h"`
}

func main() {
	log := logger.New("privacy-seed", "info")
	if err := run(log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg := database.DefaultPostgresConfig()
	pg.Host = cfg.PostgresHost
	pg.Port = cfg.PostgresPort
	pg.User = cfg.PostgresUser
	pg.Password = cfg.PostgresPass
	pg.DBName = cfg.PostgresDB
	pg.SSLMode = cfg.PostgresSSL
	pg.MaxConns = 2
	pg.MinConns = 0

	pool, err := database.NewPostgresPool(ctx, &pg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	now := time.Now().UTC()
	customers, err := seed.Customers(now)
	if err != nil {
		return err
	}
	if err := seed.Run(ctx, pool, customers); err != nil {
		return err
	}
	log.Info("seeded customers", slog.Int("count", len(customers)))

	for _, c := range customers {
		token, err := seed.SignToken(cfg.JWTSecret, cfg.JWTIssuer, c.ID, domain.RoleCustomer, cfg.TokenTTL, now)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %-10s %s\n  %s\n", c.Name, c.Plan, c.ID, token)
	}
	adminToken, err := seed.SignToken(cfg.JWTSecret, cfg.JWTIssuer, seed.AdminID(), domain.RoleAdmin, cfg.TokenTTL, now)
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %-10s %s\n  %s\n", "admin", "-", seed.AdminID(), adminToken)
	return nil
}
