package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/db"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
	"github.com/jubahomez/jubahomez-backend/pkg/security"
)

// seedadmin creates (or re-activates) the bootstrap admin account. Email and
// password come from flags, falling back to JUBAHOMEZ_ADMIN_EMAIL and
// JUBAHOMEZ_ADMIN_PASSWORD.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seedadmin"})

	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("JUBAHOMEZ_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("JUBAHOMEZ_ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Administrator", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "missing -email or -password (or the JUBAHOMEZ_ADMIN_* env vars)")
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seedadmin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := users.NewRepository(dbClient.DB())
	normalized := strings.ToLower(strings.TrimSpace(*email))

	existing, err := repo.GetByEmail(ctx, normalized)
	if err != nil {
		logg.Error(ctx, "failed to look up admin", err)
		os.Exit(1)
	}

	if existing != nil {
		if existing.Role != enums.UserRoleAdmin {
			fmt.Fprintf(os.Stderr, "account %s exists with role %s, refusing to repurpose it\n", normalized, existing.Role)
			os.Exit(1)
		}
		if existing.Status == enums.UserStatusActive {
			fmt.Println("admin already active:", normalized)
			return
		}
		if _, err := repo.UpdateStatus(ctx, existing.ID, enums.UserStatusActive); err != nil {
			logg.Error(ctx, "failed to activate admin", err)
			os.Exit(1)
		}
		fmt.Println("admin re-activated:", normalized)
		return
	}

	hash, err := security.HashPassword(*password, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	admin := models.User{
		Email:        normalized,
		PasswordHash: hash,
		Name:         strings.TrimSpace(*name),
		Role:         enums.UserRoleAdmin,
		Status:       enums.UserStatusActive,
	}
	if err := repo.Create(ctx, &admin); err != nil {
		logg.Error(ctx, "failed to create admin", err)
		os.Exit(1)
	}

	fmt.Println("admin created:", normalized)
}
