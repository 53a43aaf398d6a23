package controller

import (
	"errors"
	"strconv"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/service"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func courseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := util.ParseInt64(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "courseId must be an integer")
		return 0, false
	}
	return id, true
}

// GetCatalog godoc
// @Summary Course catalog
// @Description Published courses in schools the caller's XP unlocks; anonymous callers see the free tier
// @Tags courses
// @Produce  json
// @Param   difficulty query string false "filter by difficulty"
// @Success 200 {object} util.Response{data=[]model.CourseMetadata}
// @Router /api/courses [get]
func (c *CourseController) GetCatalog(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	courses, err := c.CourseService.Catalog(userID, ctx.Query("difficulty"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetStructure godoc
// @Summary Course structure
// @Description Chapters and lessons with derived chapter/lesson ids
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/structure [get]
func (c *CourseController) GetStructure(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	course, rows, err := c.CourseService.Structure(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": course, "lessons": rows})
}

// CheckUnlock godoc
// @Summary Course unlock check
// @Description Whether the caller's XP clears the course's school, and the gap
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/unlock [get]
func (c *CourseController) CheckUnlock(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	unlocked, gap, err := c.CourseService.CheckUnlock(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"unlocked": unlocked, "xpToUnlock": gap})
}

type CompleteLessonRequest struct {
	ChapterNumber int `json:"chapterNumber" binding:"required"`
	LessonNumber  int `json:"lessonNumber" binding:"required"`
}

// CompleteLesson godoc
// @Summary Mark a lesson completed
// @Description Idempotent; XP is awarded only on the first completion
// @Tags courses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Param   body body CompleteLessonRequest true "lesson key"
// @Success 200 {object} util.Response{data=service.LessonCompletionResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{courseId}/lessons/complete [post]
func (c *CourseController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CourseService.CompleteLesson(claims.UserID, courseID, req.ChapterNumber, req.LessonNumber)
	switch {
	case err == nil:
		util.Success(ctx, result)
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSchoolLocked):
		util.Forbidden(ctx)
	case errors.Is(err, progression.ErrInconsistentState):
		util.Conflict(ctx, "lesson state changed, re-read progress")
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetProgress godoc
// @Summary Course progress
// @Description Percent, status and next lesson for the caller in one course
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Success 200 {object} util.Response{data=progression.Progress}
// @Router /api/courses/{courseId}/progress [get]
func (c *CourseController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	progress, err := c.CourseService.Progress(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetNextLesson godoc
// @Summary Resume point
// @Description First uncompleted lesson in course order, null when done
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/next [get]
func (c *CourseController) GetNextLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	next, err := c.CourseService.NextLesson(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"next": next})
}

// GetMyCourses godoc
// @Summary Caller's course progress rows
// @Tags courses
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserCourseProgress}
// @Router /api/user/courses [get]
func (c *CourseController) GetMyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.UserCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

type CourseRequest struct {
	CourseID    int64  `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SchoolName  string `json:"schoolName" binding:"required"`
	Difficulty  string `json:"difficulty"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published"`
	LessonXP    int    `json:"lessonXp"`
}

// UpsertCourse godoc
// @Summary Create or update catalog metadata
// @Tags courses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CourseRequest true "course payload"
// @Success 200 {object} util.Response{data=model.CourseMetadata}
// @Router /api/admin/courses [post]
func (c *CourseController) UpsertCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.CourseMetadata{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		SchoolName:  req.SchoolName,
		Difficulty:  req.Difficulty,
		Status:      req.Status,
		LessonXP:    req.LessonXP,
	}
	if course.Status == "" {
		course.Status = model.CourseStatusDraft
	}
	if course.LessonXP <= 0 {
		course.LessonXP = 50
	}

	if err := c.CourseService.UpsertCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

type StructureRowRequest struct {
	ChapterNumber int    `json:"chapterNumber" binding:"required"`
	LessonNumber  int    `json:"lessonNumber" binding:"required"`
	ChapterTitle  string `json:"chapterTitle"`
	LessonTitle   string `json:"lessonTitle"`
}

// IngestStructure godoc
// @Summary Replace a course's structure
// @Description Chapter/lesson ids are recomputed server-side; ids in the payload are ignored
// @Tags courses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "course id"
// @Param   body body []StructureRowRequest true "lesson slots"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{courseId}/structure [put]
func (c *CourseController) IngestStructure(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req []StructureRowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rows := make([]model.CourseStructure, len(req))
	for i, r := range req {
		rows[i] = model.CourseStructure{
			CourseID:      courseID,
			ChapterNumber: r.ChapterNumber,
			LessonNumber:  r.LessonNumber,
			ChapterTitle:  r.ChapterTitle,
			LessonTitle:   r.LessonTitle,
		}
	}

	if err := c.CourseService.IngestStructure(courseID, rows); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"lessons": len(rows)})
}

// DeriveIDs godoc
// @Summary Derive chapter and lesson ids
// @Description Stateless id derivation for a (course, chapter[, lesson]) key
// @Tags courses
// @Produce  json
// @Param   courseId path int true "course id"
// @Param   chapter query int true "chapter number"
// @Param   lesson query int false "lesson number"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses/{courseId}/derive [get]
func (c *CourseController) DeriveIDs(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}
	chapter, err := strconv.Atoi(ctx.Query("chapter"))
	if err != nil {
		util.BadRequest(ctx, "chapter must be an integer")
		return
	}

	out := gin.H{"chapterId": progression.ChapterID(courseID, chapter)}
	if lessonStr := ctx.Query("lesson"); lessonStr != "" {
		lesson, err := strconv.Atoi(lessonStr)
		if err != nil {
			util.BadRequest(ctx, "lesson must be an integer")
			return
		}
		out["lessonId"] = progression.LessonID(courseID, chapter, lesson)
	}
	util.Success(ctx, out)
}
