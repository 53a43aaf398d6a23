package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
)

// DashboardService computes the stat-card numbers: habit completion
// counters per window and completed-lesson series grouped by school.
type DashboardService struct {
	HabitRepo    *repository.HabitRepository
	ProgressRepo *repository.ProgressRepository

	nowFunc func() time.Time
}

func NewDashboardService(habitRepo *repository.HabitRepository, progressRepo *repository.ProgressRepository) *DashboardService {
	return &DashboardService{
		HabitRepo:    habitRepo,
		ProgressRepo: progressRepo,
		nowFunc:      time.Now,
	}
}

// HabitsCompletedCount counts a user's completions inside the window
// ("day", "week", "month" or "year") ending now.
func (s *DashboardService) HabitsCompletedCount(userID uint, period string) (int64, error) {
	start := repository.StartOfPeriod(period, s.nowFunc())
	return s.HabitRepo.CountCompletionsSince(userID, progression.FormatDay(start))
}

// PeriodCount is one bucket of a grouped series.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// HabitsCompletedByPeriod groups a user's completions inside the window
// into per-day / per-week / per-month / per-year buckets.
func (s *DashboardService) HabitsCompletedByPeriod(userID uint, period string) ([]PeriodCount, error) {
	start := repository.StartOfPeriod(period, s.nowFunc())
	days, err := s.HabitRepo.CompletionDaysSince(userID, progression.FormatDay(start))
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]int)
	for _, dayStr := range days {
		d, err := progression.ParseDay(dayStr)
		if err != nil {
			continue
		}
		grouped[periodKey(period, d)]++
	}

	return sortedCounts(grouped), nil
}

// SchoolSeriesPoint is one period's completed-lesson counts, one column
// per school.
type SchoolSeriesPoint struct {
	Period  string         `json:"period"`
	Schools map[string]int `json:"schools"`
}

// CompletedLessonsBySchool builds the per-school area-chart series for
// one user, bucketed by month or week.
func (s *DashboardService) CompletedLessonsBySchool(userID uint, period string) ([]SchoolSeriesPoint, []string, error) {
	stats, err := s.ProgressRepo.CompletedLessonsWithSchool(userID)
	if err != nil {
		return nil, nil, err
	}

	grouped := make(map[string]map[string]int)
	schoolSet := make(map[string]bool)
	for _, stat := range stats {
		school := stat.SchoolName
		if school == "" {
			school = "Other"
		}
		key := periodKey(period, stat.CompletedAt)
		if grouped[key] == nil {
			grouped[key] = make(map[string]int)
		}
		grouped[key][school]++
		schoolSet[school] = true
	}

	periods := make([]string, 0, len(grouped))
	for key := range grouped {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	schools := make([]string, 0, len(schoolSet))
	for name := range schoolSet {
		schools = append(schools, name)
	}
	sort.Strings(schools)

	series := make([]SchoolSeriesPoint, len(periods))
	for i, key := range periods {
		series[i] = SchoolSeriesPoint{Period: key, Schools: grouped[key]}
	}
	return series, schools, nil
}

// TotalCompletedBySchool sums a user's completed lessons per school.
func (s *DashboardService) TotalCompletedBySchool(userID uint) (map[string]int, error) {
	stats, err := s.ProgressRepo.CompletedLessonsWithSchool(userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, stat := range stats {
		school := stat.SchoolName
		if school == "" {
			school = "Other"
		}
		totals[school]++
	}
	return totals, nil
}

func periodKey(period string, t time.Time) string {
	switch period {
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "month":
		return t.Format("2006-01")
	case "year":
		return t.Format("2006")
	default: // day
		return t.Format(progression.DayLayout)
	}
}

func sortedCounts(grouped map[string]int) []PeriodCount {
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	counts := make([]PeriodCount, len(keys))
	for i, key := range keys {
		counts[i] = PeriodCount{Period: key, Count: grouped[key]}
	}
	return counts
}
