package service

import (
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/notify"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"

	"gorm.io/gorm"
)

// HabitService tracks recurring items and their daily completions. The
// toggle is deliberately a storage-level check-then-act inside one
// transaction: the unique index on (user, habit, day) is the source of
// truth, never an in-memory view.
type HabitService struct {
	HabitRepo *repository.HabitRepository
	UserRepo  *repository.UserRepository
	Announcer notify.Announcer
	DB        *gorm.DB

	// nowFunc is replaced in tests to pin "today".
	nowFunc func() time.Time
}

func NewHabitService(
	habitRepo *repository.HabitRepository,
	userRepo *repository.UserRepository,
	announcer notify.Announcer,
	db *gorm.DB,
) *HabitService {
	return &HabitService{
		HabitRepo: habitRepo,
		UserRepo:  userRepo,
		Announcer: announcer,
		DB:        db,
		nowFunc:   time.Now,
	}
}

// HabitView is a habit with its completion history and current streak,
// what the mastery screen renders.
type HabitView struct {
	model.UserHabit
	CompletedDays []string `json:"completedDays"`
	CurrentStreak int      `json:"currentStreak"`
}

type HabitRequest struct {
	TemplateID  *uint  `json:"templateId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
	Frequency   string `json:"frequencyType"`
}

// Adopt creates a habit for a user, from a library template or custom.
// Template fields are defaults; the request may override title and reward.
func (s *HabitService) Adopt(userID uint, req HabitRequest) (*model.UserHabit, error) {
	habit := &model.UserHabit{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		Frequency:   model.FrequencyType(req.Frequency),
	}

	if req.TemplateID != nil {
		template, err := s.HabitRepo.FindTemplateByID(*req.TemplateID)
		if err != nil {
			return nil, util.ErrHabitNotFound
		}
		habit.TemplateID = &template.ID
		if habit.Title == "" {
			habit.Title = template.Title
		}
		if habit.Description == "" {
			habit.Description = template.Description
		}
		if habit.XPReward == 0 {
			habit.XPReward = template.XPReward
		}
		if habit.Frequency == "" {
			habit.Frequency = template.Frequency
		}
	}

	if habit.XPReward <= 0 {
		habit.XPReward = 10
	}
	if habit.Frequency == "" {
		habit.Frequency = model.FrequencyDaily
	}

	if err := s.HabitRepo.Create(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Templates() ([]model.HabitTemplate, error) {
	return s.HabitRepo.FindTemplates()
}

type TemplateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
	Frequency   string `json:"frequencyType" binding:"omitempty,oneof=daily weekly"`
}

// CreateTemplate adds a library entry users can adopt from.
func (s *HabitService) CreateTemplate(req TemplateRequest) (*model.HabitTemplate, error) {
	template := &model.HabitTemplate{
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		Frequency:   model.FrequencyType(req.Frequency),
		Enabled:     true,
	}
	if template.XPReward <= 0 {
		template.XPReward = 10
	}
	if template.Frequency == "" {
		template.Frequency = model.FrequencyDaily
	}
	if err := s.HabitRepo.CreateTemplate(template); err != nil {
		return nil, err
	}
	return template, nil
}

// List returns the user's habits with completions and streaks attached.
func (s *HabitService) List(userID uint) ([]HabitView, error) {
	habits, err := s.HabitRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	today := s.nowFunc()
	views := make([]HabitView, len(habits))
	for i, habit := range habits {
		completions, err := s.HabitRepo.FindCompletions(userID, habit.ID)
		if err != nil {
			return nil, err
		}
		days := make([]string, len(completions))
		set := make(progression.DaySet, len(completions))
		for j, c := range completions {
			days[j] = c.Day
			set.Add(c.Day)
		}
		views[i] = HabitView{
			UserHabit:     habit,
			CompletedDays: days,
			CurrentStreak: s.streakFor(habit, set, today),
		}
	}
	return views, nil
}

func (s *HabitService) Delete(userID, habitID uint) error {
	if _, err := s.HabitRepo.FindByUserAndID(userID, habitID); err != nil {
		return util.ErrHabitNotFound
	}
	return s.HabitRepo.Delete(userID, habitID)
}

// ToggleResult reports the state after a toggle and whether XP moved.
type ToggleResult struct {
	CompletedAfter bool `json:"completedAfter"`
	XPAwarded      int  `json:"xpAwarded"`
}

// Toggle flips the completion record for one day. Present -> removed,
// absent -> inserted. XP is awarded only on the insert transition and
// only when the day is today: back- and forward-dated toggles keep the
// calendar editable without becoming an XP farm. The whole flip runs in
// one transaction so the record and the XP credit are one fact.
func (s *HabitService) Toggle(userID, habitID uint, day string) (*ToggleResult, error) {
	habit, err := s.HabitRepo.FindByUserAndID(userID, habitID)
	if err != nil {
		return nil, progression.ErrUnknownItem
	}

	if _, err := progression.ParseDay(day); err != nil {
		return nil, err
	}

	today := progression.FormatDay(s.nowFunc())
	result := &ToggleResult{}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.HabitRepo.FindCompletionTx(tx, userID, habitID, day)
		switch {
		case err == nil:
			result.CompletedAfter = false
			return s.HabitRepo.DeleteCompletionTx(tx, existing.ID)
		case err == gorm.ErrRecordNotFound:
			awarded := 0
			if day == today {
				awarded = habit.XPReward
			}
			row := &model.HabitCompletion{
				UserID:   userID,
				HabitID:  habitID,
				Day:      day,
				XPEarned: awarded,
			}
			if err := s.HabitRepo.CreateCompletionTx(tx, row); err != nil {
				if isDuplicateKey(err) {
					// Lost a race with another device; the day is in fact
					// completed, but not by this call. Surface it instead
					// of pretending this toggle succeeded.
					return progression.ErrInconsistentState
				}
				return err
			}
			result.CompletedAfter = true
			if awarded > 0 {
				if err := s.UserRepo.IncrementXPTx(tx, userID, awarded); err != nil {
					return err
				}
				result.XPAwarded = awarded
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	if result.XPAwarded > 0 && s.Announcer != nil {
		s.Announcer.AnnounceXP(notify.XPAward{
			UserID: userID,
			Amount: result.XPAwarded,
			Source: "habit",
			RefID:  habit.Title,
			Day:    day,
		})
	}

	return result, nil
}

// Streak is the strict streak ending at asOf. Non-daily habits don't
// streak; they report 0.
func (s *HabitService) Streak(userID, habitID uint, asOf time.Time) (int, error) {
	habit, err := s.HabitRepo.FindByUserAndID(userID, habitID)
	if err != nil {
		return 0, progression.ErrUnknownItem
	}
	if habit.Frequency != model.FrequencyDaily {
		return 0, nil
	}

	set, err := s.completionSet(userID, habitID)
	if err != nil {
		return 0, err
	}
	return progression.StreakLength(set, asOf), nil
}

// CompletionRate is the completed fraction of days in [start, end].
func (s *HabitService) CompletionRate(userID, habitID uint, start, end time.Time) (float64, error) {
	if _, err := s.HabitRepo.FindByUserAndID(userID, habitID); err != nil {
		return 0, progression.ErrUnknownItem
	}

	rows, err := s.HabitRepo.FindCompletionsInRange(userID, habitID,
		progression.FormatDay(start), progression.FormatDay(end))
	if err != nil {
		return 0, err
	}

	set := make(progression.DaySet, len(rows))
	for _, row := range rows {
		set.Add(row.Day)
	}
	return progression.CompletionRate(set, start, end), nil
}

// MonthView lists the completed days of one calendar month, for the
// calendar tab.
func (s *HabitService) MonthView(userID, habitID uint, year int, month time.Month) ([]string, error) {
	if _, err := s.HabitRepo.FindByUserAndID(userID, habitID); err != nil {
		return nil, progression.ErrUnknownItem
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	rows, err := s.HabitRepo.FindCompletionsInRange(userID, habitID,
		progression.FormatDay(first), progression.FormatDay(last))
	if err != nil {
		return nil, err
	}

	days := make([]string, len(rows))
	for i, row := range rows {
		days[i] = row.Day
	}
	return days, nil
}

func (s *HabitService) streakFor(habit model.UserHabit, set progression.DaySet, today time.Time) int {
	if habit.Frequency != model.FrequencyDaily {
		return 0
	}
	return progression.CurrentStreak(set, today)
}

func (s *HabitService) completionSet(userID, habitID uint) (progression.DaySet, error) {
	rows, err := s.HabitRepo.FindCompletions(userID, habitID)
	if err != nil {
		return nil, err
	}
	set := make(progression.DaySet, len(rows))
	for _, row := range rows {
		set.Add(row.Day)
	}
	return set, nil
}
