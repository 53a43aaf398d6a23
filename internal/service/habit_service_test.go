package service

import (
	"errors"
	"testing"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/notify"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"

	"gorm.io/gorm"
)

func newHabitService(t *testing.T, db *gorm.DB, today time.Time) (*HabitService, *repository.UserRepository) {
	t.Helper()
	habitRepo := repository.NewHabitRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := NewHabitService(habitRepo, userRepo, notify.NopAnnouncer{}, db)
	svc.nowFunc = func() time.Time { return today }
	return svc, userRepo
}

func adoptHabit(t *testing.T, svc *HabitService, userID uint, req HabitRequest) *model.UserHabit {
	t.Helper()
	habit, err := svc.Adopt(userID, req)
	if err != nil {
		t.Fatalf("adopt habit: %v", err)
	}
	return habit
}

func TestToggleAwardsXPOnlyForToday(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, userRepo := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Meditation", XPReward: 10, Frequency: "daily"})

	result, err := svc.Toggle(user.ID, habit.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !result.CompletedAfter || result.XPAwarded != 10 {
		t.Fatalf("first toggle = %+v, want completed with 10 XP", result)
	}
	if got := reloadUser(t, userRepo, user.ID).XP; got != 10 {
		t.Fatalf("user XP after toggle on = %d, want 10", got)
	}

	// Toggling off removes the record but never claws XP back.
	result, err = svc.Toggle(user.ID, habit.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if result.CompletedAfter || result.XPAwarded != 0 {
		t.Fatalf("second toggle = %+v, want uncompleted with 0 XP", result)
	}
	if got := reloadUser(t, userRepo, user.ID).XP; got != 10 {
		t.Fatalf("user XP after toggle off = %d, want 10", got)
	}

	// Back-dated completion edits the calendar without paying out.
	result, err = svc.Toggle(user.ID, habit.ID, "2026-03-08")
	if err != nil {
		t.Fatalf("back-dated toggle: %v", err)
	}
	if !result.CompletedAfter || result.XPAwarded != 0 {
		t.Fatalf("back-dated toggle = %+v, want completed with 0 XP", result)
	}
}

func TestToggleRejectsUnknownHabitAndBadDay(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)

	if _, err := svc.Toggle(user.ID, 9999, "2026-03-10"); !errors.Is(err, progression.ErrUnknownItem) {
		t.Fatalf("toggle unknown habit err = %v, want ErrUnknownItem", err)
	}

	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Reading"})
	if _, err := svc.Toggle(user.ID, habit.ID, "not-a-day"); err == nil {
		t.Fatal("toggle with malformed day succeeded, want error")
	}

	// Another user's habit is invisible, not forbidden.
	other := createUser(t, db, 0)
	if _, err := svc.Toggle(other.ID, habit.ID, "2026-03-10"); !errors.Is(err, progression.ErrUnknownItem) {
		t.Fatalf("toggle foreign habit err = %v, want ErrUnknownItem", err)
	}
}

func TestStreakWalksBackFromAsOf(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Journaling"})

	for _, day := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
		if _, err := svc.Toggle(user.ID, habit.ID, day); err != nil {
			t.Fatalf("toggle %s: %v", day, err)
		}
	}

	streak, err := svc.Streak(user.ID, habit.ID, today)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 3 {
		t.Fatalf("streak asOf today = %d, want 3", streak)
	}

	// The day after the run is uncompleted, so the streak there is 0.
	streak, err = svc.Streak(user.ID, habit.ID, today.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("streak day after: %v", err)
	}
	if streak != 0 {
		t.Fatalf("streak asOf day after run = %d, want 0", streak)
	}
}

func TestStreakIsZeroForNonDailyHabits(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Weekly review", Frequency: "weekly"})

	if _, err := svc.Toggle(user.ID, habit.ID, "2026-03-10"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	streak, err := svc.Streak(user.ID, habit.ID, today)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 0 {
		t.Fatalf("weekly habit streak = %d, want 0", streak)
	}
}

func TestCompletionRateOverRange(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Reading"})

	for _, day := range []string{"2026-03-06", "2026-03-08", "2026-03-10"} {
		if _, err := svc.Toggle(user.ID, habit.ID, day); err != nil {
			t.Fatalf("toggle %s: %v", day, err)
		}
	}

	start := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rate, err := svc.CompletionRate(user.ID, habit.ID, start, end)
	if err != nil {
		t.Fatalf("completion rate: %v", err)
	}
	if rate != 0.6 {
		t.Fatalf("completion rate = %v, want 0.6", rate)
	}
}

func TestListAttachesCompletionsAndStreaks(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Meditation"})

	for _, day := range []string{"2026-03-09", "2026-03-10"} {
		if _, err := svc.Toggle(user.ID, habit.ID, day); err != nil {
			t.Fatalf("toggle %s: %v", day, err)
		}
	}

	views, err := svc.List(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if len(views[0].CompletedDays) != 2 {
		t.Fatalf("completed days = %v, want 2 entries", views[0].CompletedDays)
	}
	if views[0].CurrentStreak != 2 {
		t.Fatalf("current streak = %d, want 2", views[0].CurrentStreak)
	}
}

func TestAdoptFromTemplateUsesDefaults(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)

	template := &model.HabitTemplate{Title: "Cold shower", Description: "Two minutes", XPReward: 20, Frequency: model.FrequencyDaily, Enabled: true}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}

	habit := adoptHabit(t, svc, user.ID, HabitRequest{TemplateID: &template.ID})
	if habit.Title != "Cold shower" || habit.XPReward != 20 || habit.Frequency != model.FrequencyDaily {
		t.Fatalf("adopted habit = %+v, want template defaults", habit)
	}
	if habit.TemplateID == nil || *habit.TemplateID != template.ID {
		t.Fatalf("adopted habit template id = %v, want %d", habit.TemplateID, template.ID)
	}
}

func TestCreateTemplateAppliesDefaults(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)

	template, err := svc.CreateTemplate(TemplateRequest{Title: "Stretching"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if template.XPReward != 10 || template.Frequency != model.FrequencyDaily || !template.Enabled {
		t.Fatalf("template = %+v, want daily/10XP/enabled defaults", template)
	}

	templates, err := svc.Templates()
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 1 || templates[0].Title != "Stretching" {
		t.Fatalf("templates = %+v, want the created entry", templates)
	}
}

func TestDeleteRemovesCompletions(t *testing.T) {
	db := testDB(t)
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newHabitService(t, db, today)
	user := createUser(t, db, 0)
	habit := adoptHabit(t, svc, user.ID, HabitRequest{Title: "Reading"})

	if _, err := svc.Toggle(user.ID, habit.ID, "2026-03-10"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.Delete(user.ID, habit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&model.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&count)
	if count != 0 {
		t.Fatalf("completions left after delete = %d, want 0", count)
	}
}
