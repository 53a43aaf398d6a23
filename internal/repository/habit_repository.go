package repository

import (
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"

	"gorm.io/gorm"
)

type HabitRepository struct {
	DB *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{DB: db}
}

func (r *HabitRepository) FindTemplates() ([]model.HabitTemplate, error) {
	var templates []model.HabitTemplate
	err := r.DB.Where("enabled = ?", true).Order("title ASC").Find(&templates).Error
	return templates, err
}

func (r *HabitRepository) FindTemplateByID(id uint) (*model.HabitTemplate, error) {
	var template model.HabitTemplate
	err := r.DB.First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *HabitRepository) CreateTemplate(template *model.HabitTemplate) error {
	return r.DB.Create(template).Error
}

func (r *HabitRepository) Create(habit *model.UserHabit) error {
	return r.DB.Create(habit).Error
}

// FindByUserAndID scopes the lookup to the owner, so one user can never
// toggle another user's habit by guessing ids.
func (r *HabitRepository) FindByUserAndID(userID, habitID uint) (*model.UserHabit, error) {
	var habit model.UserHabit
	err := r.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (r *HabitRepository) FindByUser(userID uint) ([]model.UserHabit, error) {
	var habits []model.UserHabit
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error
	return habits, err
}

// Delete removes the habit and its completion history in one transaction.
// Completions are hard-deleted: streaks are a function of rows present.
func (r *HabitRepository) Delete(userID, habitID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND habit_id = ?", userID, habitID).
			Unscoped().
			Delete(&model.HabitCompletion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", habitID, userID).
			Unscoped().
			Delete(&model.UserHabit{}).Error
	})
}

func (r *HabitRepository) FindCompletions(userID, habitID uint) ([]model.HabitCompletion, error) {
	var rows []model.HabitCompletion
	err := r.DB.Where("user_id = ? AND habit_id = ?", userID, habitID).
		Order("day ASC").
		Find(&rows).Error
	return rows, err
}

func (r *HabitRepository) FindCompletionsInRange(userID, habitID uint, startDay, endDay string) ([]model.HabitCompletion, error) {
	var rows []model.HabitCompletion
	err := r.DB.Where("user_id = ? AND habit_id = ? AND day BETWEEN ? AND ?",
		userID, habitID, startDay, endDay).
		Order("day ASC").
		Find(&rows).Error
	return rows, err
}

func (r *HabitRepository) FindCompletionTx(tx *gorm.DB, userID, habitID uint, day string) (*model.HabitCompletion, error) {
	var row model.HabitCompletion
	err := tx.Where("user_id = ? AND habit_id = ? AND day = ?", userID, habitID, day).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *HabitRepository) CreateCompletionTx(tx *gorm.DB, row *model.HabitCompletion) error {
	return tx.Create(row).Error
}

func (r *HabitRepository) DeleteCompletionTx(tx *gorm.DB, completionID uint) error {
	return tx.Unscoped().Delete(&model.HabitCompletion{}, completionID).Error
}

// CountCompletionsSince counts a user's completions on or after a day,
// for the dashboard counters.
func (r *HabitRepository) CountCompletionsSince(userID uint, day string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.HabitCompletion{}).
		Where("user_id = ? AND day >= ?", userID, day).
		Count(&count).Error
	return count, err
}

// CompletionDaysSince lists a user's completion days on or after a day,
// for grouping into per-period buckets.
func (r *HabitRepository) CompletionDaysSince(userID uint, day string) ([]string, error) {
	var days []string
	err := r.DB.Model(&model.HabitCompletion{}).
		Where("user_id = ? AND day >= ?", userID, day).
		Order("day ASC").
		Pluck("day", &days).Error
	return days, err
}

// StartOfPeriod returns the first day of the window a dashboard counter
// covers, anchored at now.
func StartOfPeriod(period string, now time.Time) time.Time {
	switch period {
	case "week":
		return now.AddDate(0, 0, -int(now.Weekday()))
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default: // day
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}
