//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hugh/kudosboard/internal/auth"
	"github.com/hugh/kudosboard/internal/database"
	"github.com/hugh/kudosboard/pkg/config"
	"github.com/hugh/kudosboard/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry(), cfg.JWT.RefreshExpiry())
	authService := auth.NewService(db, jwtService, auth.NewMemoryDenylist())

	email := os.Getenv("SEED_OWNER_EMAIL")
	password := os.Getenv("SEED_OWNER_PASSWORD")
	orgName := os.Getenv("SEED_ORG_NAME")

	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "Changeme123"
	}
	if orgName == "" {
		orgName = "demo organization"
	}

	ctx := context.Background()

	owner, err := authService.Signup(ctx, auth.SignupInput{
		Email:            email,
		Password:         password,
		FirstName:        "Demo",
		LastName:         "Owner",
		OrganizationName: orgName,
	})
	if err != nil {
		log.Fatalf("failed to seed owner: %v", err)
	}

	members := []auth.AddMemberInput{
		{Email: "alice@example.com", Password: password, FirstName: "Alice", LastName: "Nguyen"},
		{Email: "bob@example.com", Password: password, FirstName: "Bob", LastName: "Okafor"},
	}
	for _, m := range members {
		if _, err := authService.AddMember(ctx, owner.OrganizationID, owner.ID, m); err != nil {
			log.Fatalf("failed to seed member %s: %v", m.Email, err)
		}
	}

	fmt.Printf("Seeded organization %q with owner %s and %d members\n", orgName, email, len(members))
}
