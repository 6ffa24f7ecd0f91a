package main

import (
	"context"
	"errors"
	"log"
	"os"

	"authsvc/internal/auth"
	"authsvc/internal/config"
	"authsvc/internal/db"
	"authsvc/internal/encryption"
	apperrors "authsvc/internal/errors"
	"authsvc/internal/model"
	"authsvc/internal/repository"
)

// Seeds a bootstrap user from SEED_* environment variables. Safe to run
// repeatedly: an existing username is reported and left untouched.
func main() {
	log.Println("Starting seed script...")

	username := os.Getenv("SEED_USERNAME")
	password := os.Getenv("SEED_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("SEED_USERNAME and SEED_PASSWORD must be set")
	}
	if err := model.ValidatePassword(password); err != nil {
		log.Fatalf("SEED_PASSWORD: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cipherKey, cipherIV := cfg.CipherMaterial()
	fieldCipher, err := encryption.NewFieldCipher(cipherKey, cipherIV)
	if err != nil {
		log.Fatalf("field cipher: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := auth.NewPasswordHasher().Hash(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    getEnv("SEED_FIRST_NAME", "Admin"),
		LastName:     getEnv("SEED_LAST_NAME", "User"),
		Email:        getEnv("SEED_EMAIL", "admin@example.com"),
	}

	userRepo := repository.NewUserRepository(gormDB, fieldCipher)
	if err := userRepo.Create(context.Background(), user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			log.Printf("User %q already exists, nothing to do", username)
			return
		}
		log.Fatalf("Failed to seed user: %v", err)
	}

	log.Printf("Seed completed successfully, user id: %s", user.ID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
