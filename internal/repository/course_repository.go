package repository

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// FindPublished lists the full published catalog. The per-user unlock and
// difficulty filters happen in memory, after the shared cache.
func (r *CourseRepository) FindPublished() ([]model.CourseMetadata, error) {
	var courses []model.CourseMetadata
	err := r.DB.Where("status = ?", model.CourseStatusPublished).
		Order("school_name ASC, course_id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByCourseID(courseID int64) (*model.CourseMetadata, error) {
	var course model.CourseMetadata
	err := r.DB.Where("course_id = ?", courseID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) UpsertMetadata(course *model.CourseMetadata) error {
	existing, err := r.FindByCourseID(course.CourseID)
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(course).Error
	}
	if err != nil {
		return err
	}
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt
	return r.DB.Save(course).Error
}

// FindStructure returns a course's lesson slots in declared numeric order.
func (r *CourseRepository) FindStructure(courseID int64) ([]model.CourseStructure, error) {
	var rows []model.CourseStructure
	err := r.DB.Where("course_id = ?", courseID).
		Order("chapter_number ASC, lesson_number ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceStructure swaps a course's structure wholesale. Content ingestion
// always rewrites the full course, so partial edits never leave a
// half-updated structure behind.
func (r *CourseRepository) ReplaceStructure(courseID int64, rows []model.CourseStructure) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).
			Unscoped().
			Delete(&model.CourseStructure{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].CourseID = courseID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) FindLessonSlot(courseID int64, chapter, lesson int) (*model.CourseStructure, error) {
	var row model.CourseStructure
	err := r.DB.Where("course_id = ? AND chapter_number = ? AND lesson_number = ?",
		courseID, chapter, lesson).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
