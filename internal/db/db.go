package db

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ideahub/internal/models"
)

// Init connects to postgres, migrates the schema and seeds default categories.
func Init(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	log.Info("Database connection established")

	if err := Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.Info("Database migration completed")

	seedCategories(db)
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Idea{},
		&models.Comment{},
		&models.Vote{},
		&models.Blog{},
		&models.Payment{},
	)
}

// DefaultCategories are created on first start.
var DefaultCategories = []string{
	"Energy",
	"Waste Management",
	"Transportation",
	"Agriculture",
	"Water Conservation",
	"Urban Greening",
}

func seedCategories(db *gorm.DB) {
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Debug("Categories already seeded, skipping")
		return
	}

	for _, name := range DefaultCategories {
		c := models.Category{Name: name}
		if err := db.Create(&c).Error; err != nil {
			log.WithError(err).Warnf("Failed to create category %s", name)
		}
	}
	log.Info("Initial categories created successfully")
}
