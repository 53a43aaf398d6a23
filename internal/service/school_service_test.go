package service

import (
	"testing"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
)

func TestListForUserAnnotatesUnlockState(t *testing.T) {
	db := testDB(t)
	svc := NewSchoolService(repository.NewSchoolRepository(db), repository.NewUserRepository(db))
	createSchool(t, db, "Neuroscience", 0)
	createSchool(t, db, "Psychology", 500)
	createSchool(t, db, "Astronomy", 3000)
	user := createUser(t, db, 600)

	views, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("len(views) = %d, want 3", len(views))
	}

	// Ordered by unlock threshold ascending.
	byName := map[string]SchoolView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	if v := byName["Neuroscience"]; !v.Unlocked || v.XPToUnlock != 0 {
		t.Fatalf("free tier view = %+v, want unlocked", v)
	}
	if v := byName["Psychology"]; !v.Unlocked || v.XPToUnlock != 0 {
		t.Fatalf("cleared tier view = %+v, want unlocked", v)
	}
	if v := byName["Astronomy"]; v.Unlocked || v.XPToUnlock != 2400 {
		t.Fatalf("locked tier view = %+v, want locked with gap 2400", v)
	}
}

func TestUnlockedNamesAlwaysIncludesFreeTier(t *testing.T) {
	db := testDB(t)
	svc := NewSchoolService(repository.NewSchoolRepository(db), repository.NewUserRepository(db))
	createSchool(t, db, "Neuroscience", 0)
	createSchool(t, db, "Astronomy", 3000)

	names, err := svc.UnlockedNames(0)
	if err != nil {
		t.Fatalf("unlocked names: %v", err)
	}
	if len(names) != 1 || names[0] != "Neuroscience" {
		t.Fatalf("unlocked at 0 XP = %v, want only the free tier", names)
	}
}

func TestUpsertUpdatesExistingSchool(t *testing.T) {
	db := testDB(t)
	svc := NewSchoolService(repository.NewSchoolRepository(db), repository.NewUserRepository(db))
	createSchool(t, db, "Psychology", 500)

	if err := svc.Upsert(&model.School{Name: "Psychology", UnlockXP: 800}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var count int64
	db.Model(&model.School{}).Count(&count)
	if count != 1 {
		t.Fatalf("school rows = %d, want update not insert", count)
	}
	var school model.School
	db.Where("name = ?", "Psychology").First(&school)
	if school.UnlockXP != 800 {
		t.Fatalf("unlock xp = %d, want 800", school.UnlockXP)
	}
}

func TestStandingForXP(t *testing.T) {
	db := testDB(t)
	svc := NewLevelService(repository.NewLevelRepository(db))
	ladder := []model.Level{
		{LevelNumber: 1, Title: "Seeker", XPThreshold: 0},
		{LevelNumber: 2, Title: "Initiate", XPThreshold: 250},
		{LevelNumber: 3, Title: "Apprentice", XPThreshold: 750},
	}
	for i := range ladder {
		if err := db.Create(&ladder[i]).Error; err != nil {
			t.Fatalf("seed level: %v", err)
		}
	}

	tests := []struct {
		xp          int
		wantLevel   int
		wantXPToGo  int
		wantHasNext bool
	}{
		{0, 1, 250, true},
		{249, 1, 1, true},
		{250, 2, 500, true},
		{900, 3, 0, false},
	}
	for _, tt := range tests {
		standing, err := svc.StandingForXP(tt.xp)
		if err != nil {
			t.Fatalf("standing for %d: %v", tt.xp, err)
		}
		if standing.LevelNumber != tt.wantLevel {
			t.Errorf("level at %d XP = %d, want %d", tt.xp, standing.LevelNumber, tt.wantLevel)
		}
		if (standing.Next != nil) != tt.wantHasNext {
			t.Errorf("next at %d XP present = %v, want %v", tt.xp, standing.Next != nil, tt.wantHasNext)
		}
		if standing.XPToNext != tt.wantXPToGo {
			t.Errorf("xp to next at %d XP = %d, want %d", tt.xp, standing.XPToNext, tt.wantXPToGo)
		}
	}
}
