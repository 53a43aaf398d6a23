package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/notify"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "catalyst:catalog:published"
	catalogCacheTTL = 5 * time.Minute
)

// CourseService owns the catalog and the lesson-completion flow. Unlock
// decisions and progress numbers always come from the progression package;
// this layer only loads state and persists effects.
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Schools      *SchoolService
	Redis        *redis.Client
	Announcer    notify.Announcer
	DB           *gorm.DB
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	schools *SchoolService,
	rdb *redis.Client,
	announcer notify.Announcer,
	db *gorm.DB,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Schools:      schools,
		Redis:        rdb,
		Announcer:    announcer,
		DB:           db,
	}
}

// Catalog lists published courses the user is allowed to see: only
// courses whose school the user's current XP unlocks. userID 0 means an
// anonymous caller, who browses at 0 XP and sees the free tier only.
func (s *CourseService) Catalog(userID uint, difficulty string) ([]model.CourseMetadata, error) {
	xp := 0
	if userID != 0 {
		user, err := s.UserRepo.FindByID(userID)
		if err != nil {
			return nil, util.ErrUserNotFound
		}
		xp = user.XP
	}

	unlocked, err := s.Schools.UnlockedNames(xp)
	if err != nil {
		return nil, err
	}
	if len(unlocked) == 0 {
		return []model.CourseMetadata{}, nil
	}

	courses, err := s.publishedCourses()
	if err != nil {
		return nil, err
	}

	unlockedSet := make(map[string]bool, len(unlocked))
	for _, name := range unlocked {
		unlockedSet[name] = true
	}

	visible := make([]model.CourseMetadata, 0, len(courses))
	for _, course := range courses {
		if !unlockedSet[course.SchoolName] {
			continue
		}
		if difficulty != "" && course.Difficulty != difficulty {
			continue
		}
		visible = append(visible, course)
	}
	return visible, nil
}

// publishedCourses reads the full published catalog through a short redis
// cache; the per-user unlock filter happens in memory afterwards so the
// cache stays user independent.
func (s *CourseService) publishedCourses() ([]model.CourseMetadata, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var cached []model.CourseMetadata
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.FindPublished()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(courses); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, payload, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *CourseService) invalidateCatalogCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), catalogCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// CheckUnlock reports whether the user's XP clears the course's school,
// and by how much it misses.
func (s *CourseService) CheckUnlock(userID uint, courseID int64) (unlocked bool, gap int, err error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return false, 0, util.ErrUserNotFound
	}

	course, err := s.CourseRepo.FindByCourseID(courseID)
	if err != nil {
		return false, 0, util.ErrCourseNotFound
	}

	school, err := s.Schools.SchoolRepo.FindByName(course.SchoolName)
	if err == gorm.ErrRecordNotFound {
		// A course pointing at no school row is ungated.
		return true, 0, nil
	}
	if err != nil {
		return false, 0, err
	}

	return progression.IsUnlocked(user.XP, school.UnlockXP),
		progression.UnlockGap(user.XP, school.UnlockXP), nil
}

// Structure returns a course's chapters and lessons with derived UUIDs
// attached, in the shape the aggregator walks.
func (s *CourseService) Structure(courseID int64) (progression.Course, []model.CourseStructure, error) {
	rows, err := s.CourseRepo.FindStructure(courseID)
	if err != nil {
		return progression.Course{}, nil, err
	}
	return structureToCourse(courseID, rows), rows, nil
}

// IngestStructure replaces a course's structure, recomputing the derived
// chapter/lesson UUIDs from the numeric key. The UUID columns are never
// accepted from the caller.
func (s *CourseService) IngestStructure(courseID int64, rows []model.CourseStructure) error {
	if _, err := s.CourseRepo.FindByCourseID(courseID); err != nil {
		return util.ErrCourseNotFound
	}

	for i := range rows {
		rows[i].ChapterUUID = progression.ChapterID(courseID, rows[i].ChapterNumber)
		rows[i].LessonUUID = progression.LessonID(courseID, rows[i].ChapterNumber, rows[i].LessonNumber)
	}

	if err := s.CourseRepo.ReplaceStructure(courseID, rows); err != nil {
		return err
	}
	s.invalidateCatalogCache()
	return nil
}

func (s *CourseService) UpsertCourse(course *model.CourseMetadata) error {
	if err := s.CourseRepo.UpsertMetadata(course); err != nil {
		return err
	}
	s.invalidateCatalogCache()
	return nil
}

// LessonCompletionResult reports what a completion attempt did.
type LessonCompletionResult struct {
	AlreadyCompleted bool                 `json:"alreadyCompleted"`
	XPAwarded        int                  `json:"xpAwarded"`
	Progress         progression.Progress `json:"progress"`
	LessonID         string               `json:"lessonId"`
}

// CompleteLesson marks a lesson done and awards the course's lesson XP on
// the first transition only. The progress row and the XP credit commit in
// one transaction: a crash between the two can never leave a completed
// lesson that was never paid out.
func (s *CourseService) CompleteLesson(userID uint, courseID int64, chapter, lesson int) (*LessonCompletionResult, error) {
	course, err := s.CourseRepo.FindByCourseID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	slot, err := s.CourseRepo.FindLessonSlot(courseID, chapter, lesson)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	if unlocked, _, err := s.CheckUnlock(userID, courseID); err != nil {
		return nil, err
	} else if !unlocked {
		return nil, util.ErrSchoolLocked
	}

	result := &LessonCompletionResult{LessonID: slot.LessonUUID}

	_, err = s.ProgressRepo.FindLessonProgress(userID, courseID, chapter, lesson)
	switch {
	case err == nil:
		// Re-completing is a no-op; XP is never awarded twice.
		result.AlreadyCompleted = true
	case err == gorm.ErrRecordNotFound:
		now := time.Now()
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			row := &model.UserLessonProgress{
				UserID:        userID,
				CourseID:      courseID,
				ChapterNumber: chapter,
				LessonNumber:  lesson,
				IsCompleted:   true,
				CompletedAt:   &now,
			}
			if err := s.ProgressRepo.CreateLessonProgressTx(tx, row); err != nil {
				if isDuplicateKey(err) {
					// Another device completed it between our check and
					// this insert; the caller should re-read.
					return progression.ErrInconsistentState
				}
				return err
			}
			return s.UserRepo.IncrementXPTx(tx, userID, course.LessonXP)
		})
		if txErr != nil {
			return nil, txErr
		}
		result.XPAwarded = course.LessonXP
	default:
		return nil, err
	}

	progress, err := s.Progress(userID, courseID)
	if err != nil {
		return nil, err
	}
	result.Progress = progress

	if err := s.ProgressRepo.UpsertCourseProgress(userID, courseID, string(progress.Status), progress.Percent); err != nil {
		logger.Log.Warn("course progress cache update failed",
			zap.Uint("userId", userID), zap.Int64("courseId", courseID), zap.Error(err))
	}

	if result.XPAwarded > 0 && s.Announcer != nil {
		s.Announcer.AnnounceXP(notify.XPAward{
			UserID: userID,
			Amount: result.XPAwarded,
			Source: "lesson",
			RefID:  slot.LessonUUID,
			Day:    progression.FormatDay(now()),
		})
	}

	return result, nil
}

// Progress aggregates percent/status/next from the structure and the
// user's completion set. Pure recomputation, nothing persisted here.
func (s *CourseService) Progress(userID uint, courseID int64) (progression.Progress, error) {
	course, _, err := s.Structure(courseID)
	if err != nil {
		return progression.Progress{}, err
	}

	rows, err := s.ProgressRepo.FindCompletedLessons(userID, courseID)
	if err != nil {
		return progression.Progress{}, err
	}

	completed := make(map[progression.LessonKey]bool, len(rows))
	for _, row := range rows {
		completed[progression.LessonKey{Chapter: row.ChapterNumber, Lesson: row.LessonNumber}] = true
	}

	return progression.Aggregate(course, completed), nil
}

// NextLesson is the resume point: the first uncompleted lesson in course
// order, nil when everything is done.
func (s *CourseService) NextLesson(userID uint, courseID int64) (*progression.LessonKey, error) {
	progress, err := s.Progress(userID, courseID)
	if err != nil {
		return nil, err
	}
	return progress.Next, nil
}

func (s *CourseService) UserCourses(userID uint) ([]model.UserCourseProgress, error) {
	return s.ProgressRepo.FindUserCourses(userID)
}

func structureToCourse(courseID int64, rows []model.CourseStructure) progression.Course {
	course := progression.Course{CourseID: courseID}
	byChapter := make(map[int]int) // chapter number -> index in course.Chapters
	for _, row := range rows {
		idx, ok := byChapter[row.ChapterNumber]
		if !ok {
			course.Chapters = append(course.Chapters, progression.Chapter{
				Number: row.ChapterNumber,
				Title:  row.ChapterTitle,
			})
			idx = len(course.Chapters) - 1
			byChapter[row.ChapterNumber] = idx
		}
		course.Chapters[idx].Lessons = append(course.Chapters[idx].Lessons, progression.Lesson{
			Number: row.LessonNumber,
			Title:  row.LessonTitle,
		})
	}
	return course
}

// now is stubbed in tests.
var now = time.Now
