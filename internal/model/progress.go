package model

import "time"

// UserLessonProgress marks one lesson done for one user. The unique index
// over the full numeric key makes repeat completions a no-op at the
// storage layer, which is what keeps XP from being farmed by re-completing.
// swagger:model UserLessonProgress
type UserLessonProgress struct {
	BaseModel
	UserID        uint       `gorm:"index:idx_user_lesson,unique;not null" json:"userId"`
	CourseID      int64      `gorm:"index:idx_user_lesson,unique;not null" json:"courseId"`
	ChapterNumber int        `gorm:"index:idx_user_lesson,unique;not null" json:"chapterNumber"`
	LessonNumber  int        `gorm:"index:idx_user_lesson,unique;not null" json:"lessonNumber"`
	IsCompleted   bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt   *time.Time `json:"completedAt"`
}

func (UserLessonProgress) TableName() string {
	return "user_lesson_progress"
}

// UserCourseProgress is a denormalized cache of the aggregator output so
// catalog pages don't recompute every course on every request. The
// aggregator result is the source of truth; this row is overwritten from
// it after each lesson completion.
// swagger:model UserCourseProgress
type UserCourseProgress struct {
	BaseModel
	UserID             uint      `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID           int64     `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	Status             string    `gorm:"size:20;default:'not_started'" json:"status"`
	ProgressPercentage int       `gorm:"default:0" json:"progressPercentage"`
	LastAccessedAt     time.Time `json:"lastAccessedAt"`
}

func (UserCourseProgress) TableName() string {
	return "user_course_progress"
}
