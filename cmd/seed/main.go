package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"boletamaster/internal/shared/config"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/shared/database"
	"boletamaster/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

// seedPassword is shared by every seeded account
const seedPassword = "qwerty"

func main() {
	fmt.Println("Starting BoletaMaster database seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding accounts...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Client and organizer profiles are created on first login.")
}

// CleanDatabase truncates every persisted table
func (s *Seeder) CleanDatabase() error {
	// Children before parents
	tables := []string{
		"marketplace_offer_log",
		"refund_records",
		"purchase_receipt_lines",
		"purchase_receipts",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds accounts and clears cached views
func (s *Seeder) SeedAll(ctx context.Context) error {
	if _, err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Clear cached listings so they are rebuilt from fresh state
	if s.db.Redis != nil {
		for _, pattern := range []string{constants.CACHE_PATTERN_EVENTS_ALL, constants.CACHE_PATTERN_MARKET_ALL, constants.CACHE_PATTERN_ADMIN_REPORTS} {
			keys, err := s.db.Redis.Keys(ctx, pattern).Result()
			if err != nil {
				log.Printf("Warning: failed to list cache keys %s: %v", pattern, err)
				continue
			}
			if len(keys) > 0 {
				s.db.Redis.Del(ctx, keys...)
			}
		}
	}

	return nil
}

// SeedUsers creates one admin, two organizers and three clients
func (s *Seeder) SeedUsers(ctx context.Context) (map[string]uuid.UUID, error) {
	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key          string
		name         string
		organization string
		email        string
		role         users.Role
	}{
		{"admin", "Administrator", "", "admin@boletamaster.com", users.RoleAdmin},
		{"organizer1", "Laura Gomez", "Teatro Mayor", "laura@teatromayor.com", users.RoleOrganizer},
		{"organizer2", "Andres Rojas", "Estadio Capital", "andres@estadiocapital.com", users.RoleOrganizer},
		{"client1", "Camila Torres", "", "camila@example.com", users.RoleClient},
		{"client2", "Mateo Diaz", "", "mateo@example.com", users.RoleClient},
		{"client3", "Valentina Ruiz", "", "valentina@example.com", users.RoleClient},
	}

	now := time.Now().UTC()
	for _, userData := range usersData {
		user := users.User{
			ID:           uuid.New(),
			Name:         userData.name,
			Organization: userData.organization,
			Email:        userData.email,
			Password:     string(hashedPassword),
			Role:         userData.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.db.PostgreSQL.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("  Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}
