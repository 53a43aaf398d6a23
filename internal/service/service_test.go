package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/database"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database per test, with the production
// schema applied.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, xp int) *model.User {
	t.Helper()
	userSeq++
	user := &model.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Password: "irrelevant",
		XP:       xp,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createSchool(t *testing.T, db *gorm.DB, name string, unlockXP int) *model.School {
	t.Helper()
	school := &model.School{Name: name, UnlockXP: unlockXP}
	if err := db.Create(school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	return school
}

func reloadUser(t *testing.T, repo *repository.UserRepository, id uint) *model.User {
	t.Helper()
	user, err := repo.FindByID(id)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}
