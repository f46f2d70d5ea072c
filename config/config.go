package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/models"
)

// LoadEnv reads .env during local development. A missing file is normal in
// production where the environment is provided by the platform.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded (ok in production)")
	}
}

// ConnectDB opens the PostgreSQL connection and migrates the schema. The
// returned handle is injected into every component that needs it; there is
// no package-level singleton.
func ConnectDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbName, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("Connected to PostgreSQL & migrated successfully")
	return db, nil
}

// Migrate runs AutoMigrate for every entity. Exposed separately so tests
// can migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.AnswerOption{},
		&models.Form{},
		&models.FormQuestion{},
		&models.Answer{},
		&models.ExportJob{},
	)
}
