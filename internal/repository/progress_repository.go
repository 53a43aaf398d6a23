package repository

import (
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindCompletedLessons lists a user's completed lessons for one course.
func (r *ProgressRepository) FindCompletedLessons(userID uint, courseID int64) ([]model.UserLessonProgress, error) {
	var rows []model.UserLessonProgress
	err := r.DB.Where("user_id = ? AND course_id = ? AND is_completed = ?", userID, courseID, true).
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindLessonProgress(userID uint, courseID int64, chapter, lesson int) (*model.UserLessonProgress, error) {
	var row model.UserLessonProgress
	err := r.DB.Where("user_id = ? AND course_id = ? AND chapter_number = ? AND lesson_number = ?",
		userID, courseID, chapter, lesson).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProgressRepository) CreateLessonProgressTx(tx *gorm.DB, row *model.UserLessonProgress) error {
	return tx.Create(row).Error
}

// UpsertCourseProgress overwrites the denormalized per-course cache with a
// freshly aggregated result.
func (r *ProgressRepository) UpsertCourseProgress(userID uint, courseID int64, status string, percent int) error {
	var existing model.UserCourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.UserCourseProgress{
			UserID:             userID,
			CourseID:           courseID,
			Status:             status,
			ProgressPercentage: percent,
			LastAccessedAt:     now,
		}).Error
	}
	if err != nil {
		return err
	}
	existing.Status = status
	existing.ProgressPercentage = percent
	existing.LastAccessedAt = now
	return r.DB.Save(&existing).Error
}

func (r *ProgressRepository) FindUserCourses(userID uint) ([]model.UserCourseProgress, error) {
	var rows []model.UserCourseProgress
	err := r.DB.Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	return rows, err
}

// CompletedLessonStat is one completed lesson joined with the school its
// course belongs to, for the dashboard time series.
type CompletedLessonStat struct {
	CompletedAt time.Time
	SchoolName  string
}

func (r *ProgressRepository) CompletedLessonsWithSchool(userID uint) ([]CompletedLessonStat, error) {
	var stats []CompletedLessonStat
	err := r.DB.Model(&model.UserLessonProgress{}).
		Select("user_lesson_progress.completed_at AS completed_at, course_metadata.school_name AS school_name").
		Joins("JOIN course_metadata ON course_metadata.course_id = user_lesson_progress.course_id").
		Where("user_lesson_progress.user_id = ? AND user_lesson_progress.is_completed = ? AND user_lesson_progress.completed_at IS NOT NULL",
			userID, true).
		Order("user_lesson_progress.completed_at ASC").
		Scan(&stats).Error
	return stats, err
}
