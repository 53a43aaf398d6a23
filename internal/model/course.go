package model

// CourseMetadata is the catalog row for a course. CourseID is the legacy
// numeric identifier the content pipeline authors against; it may be
// negative, so it is kept apart from the surrogate primary key.
// swagger:model CourseMetadata
type CourseMetadata struct {
	BaseModel
	CourseID    int64  `gorm:"uniqueIndex;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"size:2000" json:"description"`
	SchoolName  string `gorm:"size:100;index;not null" json:"schoolName"`
	Difficulty  string `gorm:"size:50" json:"difficulty"`
	Status      string `gorm:"size:20;default:'draft';index" json:"status"`
	LessonXP    int    `gorm:"default:50" json:"lessonXp"`
}

func (CourseMetadata) TableName() string {
	return "course_metadata"
}

const (
	CourseStatusPublished = "published"
	CourseStatusDraft     = "draft"
)

// CourseStructure is one lesson slot of a course, addressed two ways: the
// numeric (course, chapter, lesson) triple from the authoring scheme and
// the derived ChapterUUID/LessonUUID used by UUID-keyed relations. The
// UUID columns are a convenience projection, recomputed from the numeric
// key on every write, never edited by hand.
// swagger:model CourseStructure
type CourseStructure struct {
	BaseModel
	CourseID      int64  `gorm:"index:idx_course_lesson,unique;not null" json:"courseId"`
	ChapterNumber int    `gorm:"index:idx_course_lesson,unique;not null" json:"chapterNumber"`
	LessonNumber  int    `gorm:"index:idx_course_lesson,unique;not null" json:"lessonNumber"`
	ChapterTitle  string `gorm:"size:255" json:"chapterTitle"`
	LessonTitle   string `gorm:"size:255" json:"lessonTitle"`
	ChapterUUID   string `gorm:"size:36;index" json:"chapterId"`
	LessonUUID    string `gorm:"size:36;index" json:"lessonId"`
}

func (CourseStructure) TableName() string {
	return "course_structure"
}
