package database

import (
	"fmt"
	"log"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/config"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	Seed(db)

	return db, nil
}

// Migrate applies the schema. Shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.School{},
		&model.Level{},
		&model.CourseMetadata{},
		&model.CourseStructure{},
		&model.UserLessonProgress{},
		&model.UserCourseProgress{},
		&model.HabitTemplate{},
		&model.UserHabit{},
		&model.HabitCompletion{},
	)
}

// Seed inserts reference data on an empty database: the school tiers,
// the level ladder and the starter habit library.
func Seed(db *gorm.DB) {
	var schoolCount int64
	db.Model(&model.School{}).Count(&schoolCount)
	if schoolCount == 0 {
		defaultSchools := []model.School{
			{Name: "Neuroscience", Description: "How the brain learns and changes", UnlockXP: 0, Position: 1},
			{Name: "Psychology", Description: "Behavior, motivation and habit loops", UnlockXP: 500, Position: 2},
			{Name: "Philosophy", Description: "Frameworks for thinking clearly", UnlockXP: 1500, Position: 3},
			{Name: "Astronomy", Description: "Perspective at cosmic scale", UnlockXP: 3000, Position: 4},
		}
		for _, s := range defaultSchools {
			db.Create(&s)
		}
	}

	var levelCount int64
	db.Model(&model.Level{}).Count(&levelCount)
	if levelCount == 0 {
		defaultLevels := []model.Level{
			{LevelNumber: 1, Title: "Seeker", XPThreshold: 0},
			{LevelNumber: 2, Title: "Initiate", XPThreshold: 250},
			{LevelNumber: 3, Title: "Apprentice", XPThreshold: 750},
			{LevelNumber: 4, Title: "Adept", XPThreshold: 1500},
			{LevelNumber: 5, Title: "Scholar", XPThreshold: 3000},
			{LevelNumber: 6, Title: "Sage", XPThreshold: 6000},
		}
		for _, l := range defaultLevels {
			db.Create(&l)
		}
	}

	var templateCount int64
	db.Model(&model.HabitTemplate{}).Count(&templateCount)
	if templateCount == 0 {
		defaultTemplates := []model.HabitTemplate{
			{Title: "Morning reading", Description: "Read for 20 minutes after waking", XPReward: 10, Frequency: model.FrequencyDaily},
			{Title: "Meditation", Description: "10 minutes of focused breathing", XPReward: 10, Frequency: model.FrequencyDaily},
			{Title: "Journaling", Description: "Write one page of reflections", XPReward: 15, Frequency: model.FrequencyDaily},
			{Title: "Weekly review", Description: "Review goals and plan the week", XPReward: 25, Frequency: model.FrequencyWeekly},
		}
		for _, t := range defaultTemplates {
			db.Create(&t)
		}
	}
}
