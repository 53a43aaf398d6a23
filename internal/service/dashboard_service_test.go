package service

import (
	"testing"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"

	"gorm.io/gorm"
)

func newDashboardService(t *testing.T, db *gorm.DB, now time.Time) *DashboardService {
	t.Helper()
	svc := NewDashboardService(repository.NewHabitRepository(db), repository.NewProgressRepository(db))
	svc.nowFunc = func() time.Time { return now }
	return svc
}

func seedCompletion(t *testing.T, db *gorm.DB, userID, habitID uint, day string) {
	t.Helper()
	row := &model.HabitCompletion{UserID: userID, HabitID: habitID, Day: day}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed completion %s: %v", day, err)
	}
}

func TestHabitsCompletedCountWindows(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // a Wednesday
	svc := newDashboardService(t, db, now)
	user := createUser(t, db, 0)

	days := []string{
		"2026-03-11", // today
		"2026-03-09", // this week (week starts Sunday 2026-03-08)
		"2026-03-02", // this month only
		"2026-01-15", // this year only
		"2025-12-31", // last year
	}
	for i, day := range days {
		seedCompletion(t, db, user.ID, uint(i+1), day)
	}
	// Another user's completion must never leak into the counters.
	other := createUser(t, db, 10)
	seedCompletion(t, db, other.ID, 1, "2026-03-11")

	tests := []struct {
		period string
		want   int64
	}{
		{"day", 1},
		{"week", 2},
		{"month", 3},
		{"year", 4},
	}
	for _, tt := range tests {
		got, err := svc.HabitsCompletedCount(user.ID, tt.period)
		if err != nil {
			t.Fatalf("count %s: %v", tt.period, err)
		}
		if got != tt.want {
			t.Errorf("count %s = %d, want %d", tt.period, got, tt.want)
		}
	}
}

func TestHabitsCompletedByPeriodBuckets(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	svc := newDashboardService(t, db, now)
	user := createUser(t, db, 0)

	seedCompletion(t, db, user.ID, 1, "2026-01-10")
	seedCompletion(t, db, user.ID, 2, "2026-01-20")
	seedCompletion(t, db, user.ID, 3, "2026-03-05")

	buckets, err := svc.HabitsCompletedByPeriod(user.ID, "month")
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	// Month window starts 2026-03-01, so only the March completion remains.
	if len(buckets) != 1 || buckets[0].Period != "2026-03" || buckets[0].Count != 1 {
		t.Fatalf("month buckets = %+v, want one 2026-03 bucket of 1", buckets)
	}

	yearBuckets, err := svc.HabitsCompletedByPeriod(user.ID, "year")
	if err != nil {
		t.Fatalf("year buckets: %v", err)
	}
	if len(yearBuckets) != 1 || yearBuckets[0].Count != 3 {
		t.Fatalf("year buckets = %+v, want one 2026 bucket of 3", yearBuckets)
	}
}

func TestCompletedLessonsBySchool(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	dashboard := newDashboardService(t, db, now)
	courseSvc, _ := newCourseService(t, db)

	createSchool(t, db, "Neuroscience", 0)
	createSchool(t, db, "Psychology", 0)
	user := createUser(t, db, 0)
	seedCourse(t, courseSvc, 1, "Neuroscience", 10, twoChapterLessons())
	seedCourse(t, courseSvc, 2, "Psychology", 10, twoChapterLessons())

	for _, c := range []struct {
		courseID int64
		chapter  int
		lesson   int
	}{
		{1, 1, 1}, {1, 1, 2}, {2, 1, 1},
	} {
		if _, err := courseSvc.CompleteLesson(user.ID, c.courseID, c.chapter, c.lesson); err != nil {
			t.Fatalf("complete %+v: %v", c, err)
		}
	}

	totals, err := dashboard.TotalCompletedBySchool(user.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals["Neuroscience"] != 2 || totals["Psychology"] != 1 {
		t.Fatalf("totals = %v, want Neuroscience:2 Psychology:1", totals)
	}

	series, schools, err := dashboard.CompletedLessonsBySchool(user.ID, "month")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(schools) != 2 {
		t.Fatalf("schools = %v, want both schools", schools)
	}
	if len(series) != 1 {
		t.Fatalf("series = %+v, want a single current-month bucket", series)
	}
	if series[0].Schools["Neuroscience"] != 2 {
		t.Fatalf("bucket = %+v, want 2 Neuroscience lessons", series[0])
	}
}
