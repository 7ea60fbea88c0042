package main

import (
	"flag"
	"log"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/pkg/database"
	"gadget-prima-pos/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "admin@gadgetprima.id", "account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, logger.New(cfg.Log.Level, cfg.Log.Format))
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// 3. Find the account
	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("user %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("failed to update password in DB: %v", err)
	}

	log.Printf("password for %s has been reset", *email)
}
