package config

import (
	"os"

	"github.com/luckyfive/lottery-backend/models"
	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// SetupDatabase connects to DB and runs migrations
func SetupDatabase() *gorm.DB {
	// Load env
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, reading environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Log.Fatal("DATABASE_URL is required in .env or environment")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("Failed to connect to DB: %v", err)
	}
	DB = db

	if err := Migrate(db); err != nil {
		logger.Log.Fatalf("Migration failed: %v", err)
	}

	logger.Info("Database migration completed")
	return db
}

// Migrate runs the schema migrations for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Lottery{},
		&models.Ticket{},
		&models.Transaction{},
	)
}

// SessionSecret returns the key used to sign session cookies.
func SessionSecret() []byte {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-secret-key" // change in production
	}
	return []byte(secret)
}

// SecureCookies reports whether session cookies are marked Secure.
// Set COOKIE_SECURE=true in production where the service sits behind HTTPS.
func SecureCookies() bool {
	return os.Getenv("COOKIE_SECURE") == "true"
}
