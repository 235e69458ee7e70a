// Command seed-db loads demo packages and accounts into the backend
// database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/storage/postgres"
)

type packageJSON struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Category    string          `json:"category"`
}

type userJSON struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func main() {
	var (
		databaseURL  string
		packagesFile string
		usersFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&packagesFile, "packages-file", "db/seed/packages.json", "path to packages JSON file")
	flag.StringVar(&usersFile, "users-file", "db/seed/users.json", "path to users JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, packagesFile, usersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, packagesFile, usersFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedPackages(ctx, postgres.NewPackageStore(pool), packagesFile); err != nil {
		return errors.Wrap(err, "seed packages")
	}
	if err := seedUsers(ctx, postgres.NewUserStore(pool), usersFile); err != nil {
		return errors.Wrap(err, "seed users")
	}
	return nil
}

func seedPackages(ctx context.Context, store *postgres.PackageStore, path string) error {
	slog.Info("reading packages file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read packages file")
	}
	var packages []packageJSON
	if err := json.Unmarshal(data, &packages); err != nil {
		return errors.Wrap(err, "parse packages JSON")
	}

	// Skip when the catalog is already populated: seeding is idempotent
	// at the collection level, not the row level.
	existing, err := store.List(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "list packages")
	}
	if len(existing) > 0 {
		slog.Info("packages already seeded", slog.Int("count", len(existing)))
		return nil
	}

	for _, p := range packages {
		if _, err := store.Insert(ctx, postgres.PackageRow{
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Duration:    p.Duration,
			Category:    p.Category,
		}); err != nil {
			return errors.Wrapf(err, "insert package %q", p.Name)
		}
	}
	slog.Info("packages seeded", slog.Int("count", len(packages)))
	return nil
}

func seedUsers(ctx context.Context, store *postgres.UserStore, path string) error {
	slog.Info("reading users file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read users file")
	}
	var users []userJSON
	if err := json.Unmarshal(data, &users); err != nil {
		return errors.Wrap(err, "parse users JSON")
	}

	for _, u := range users {
		if _, err := store.Insert(ctx, postgres.UserRow{
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
			Role:  u.Role,
		}, u.Password); err != nil {
			return errors.Wrapf(err, "insert user %q", u.Email)
		}
	}
	slog.Info("users seeded", slog.Int("count", len(users)))
	return nil
}
