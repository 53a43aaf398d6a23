package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/service"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type HabitController struct {
	HabitService *service.HabitService
}

func NewHabitController(habitService *service.HabitService) *HabitController {
	return &HabitController{HabitService: habitService}
}

func habitIDParam(ctx *gin.Context) uint {
	return util.MustParseUint(ctx.Param("habitId"))
}

// GetTemplates godoc
// @Summary Habit template library
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.HabitTemplate}
// @Router /api/habits/templates [get]
func (c *HabitController) GetTemplates(ctx *gin.Context) {
	templates, err := c.HabitService.Templates()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, templates)
}

// CreateTemplate godoc
// @Summary Add a habit template to the library
// @Tags habits
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TemplateRequest true "template payload"
// @Success 201 {object} util.Response{data=model.HabitTemplate}
// @Failure 400 {object} util.Response
// @Router /api/admin/habit-templates [post]
func (c *HabitController) CreateTemplate(ctx *gin.Context) {
	var req service.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	template, err := c.HabitService.CreateTemplate(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, template)
}

// GetHabits godoc
// @Summary Caller's habits
// @Description Habits with completion history and current streaks
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.HabitView}
// @Router /api/habits [get]
func (c *HabitController) GetHabits(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	habits, err := c.HabitService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, habits)
}

// CreateHabit godoc
// @Summary Adopt a habit
// @Description From a library template or fully custom
// @Tags habits
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.HabitRequest true "habit payload"
// @Success 201 {object} util.Response{data=model.UserHabit}
// @Failure 404 {object} util.Response
// @Router /api/habits [post]
func (c *HabitController) CreateHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.HabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	habit, err := c.HabitService.Adopt(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, habit)
}

// DeleteHabit godoc
// @Summary Delete a habit and its completions
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Param   habitId path int true "habit id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/habits/{habitId} [delete]
func (c *HabitController) DeleteHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.HabitService.Delete(claims.UserID, habitIDParam(ctx)); err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type ToggleRequest struct {
	Day string `json:"day" binding:"required"`
}

// ToggleCompletion godoc
// @Summary Toggle one day's completion
// @Description Present becomes absent and vice versa; XP moves only when completing today
// @Tags habits
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   habitId path int true "habit id"
// @Param   body body ToggleRequest true "day in YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.ToggleResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/habits/{habitId}/toggle [post]
func (c *HabitController) ToggleCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.HabitService.Toggle(claims.UserID, habitIDParam(ctx), req.Day)
	switch {
	case err == nil:
		util.Success(ctx, result)
	case errors.Is(err, progression.ErrUnknownItem):
		util.NotFound(ctx)
	case errors.Is(err, progression.ErrInconsistentState):
		util.Conflict(ctx, "completion state changed, re-read the habit")
	default:
		util.BadRequest(ctx, err.Error())
	}
}

// GetStreak godoc
// @Summary Streak length as of a day
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Param   habitId path int true "habit id"
// @Param   asOf query string false "day in YYYY-MM-DD, default today"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/habits/{habitId}/streak [get]
func (c *HabitController) GetStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	asOf := time.Now()
	if s := ctx.Query("asOf"); s != "" {
		parsed, err := progression.ParseDay(s)
		if err != nil {
			util.BadRequest(ctx, "asOf must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	streak, err := c.HabitService.Streak(claims.UserID, habitIDParam(ctx), asOf)
	if err != nil {
		if errors.Is(err, progression.ErrUnknownItem) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"streak": streak})
}

// GetCompletionRate godoc
// @Summary Completion rate over a day range
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Param   habitId path int true "habit id"
// @Param   start query string true "first day, YYYY-MM-DD"
// @Param   end query string true "last day, YYYY-MM-DD"
// @Success 200 {object} util.Response{data=object}
// @Router /api/habits/{habitId}/completion-rate [get]
func (c *HabitController) GetCompletionRate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	start, err := progression.ParseDay(ctx.Query("start"))
	if err != nil {
		util.BadRequest(ctx, "start must be YYYY-MM-DD")
		return
	}
	end, err := progression.ParseDay(ctx.Query("end"))
	if err != nil {
		util.BadRequest(ctx, "end must be YYYY-MM-DD")
		return
	}

	rate, err := c.HabitService.CompletionRate(claims.UserID, habitIDParam(ctx), start, end)
	if err != nil {
		if errors.Is(err, progression.ErrUnknownItem) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"rate": rate})
}

// GetMonth godoc
// @Summary Completed days of one calendar month
// @Tags habits
// @Produce  json
// @Security BearerAuth
// @Param   habitId path int true "habit id"
// @Param   year query int true "year"
// @Param   month query int true "month 1-12"
// @Success 200 {object} util.Response{data=object}
// @Router /api/habits/{habitId}/month [get]
func (c *HabitController) GetMonth(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		util.BadRequest(ctx, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(ctx.Query("month"))
	if err != nil || month < 1 || month > 12 {
		util.BadRequest(ctx, "month must be 1-12")
		return
	}

	days, err := c.HabitService.MonthView(claims.UserID, habitIDParam(ctx), year, time.Month(month))
	if err != nil {
		if errors.Is(err, progression.ErrUnknownItem) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"days": days})
}
