package controller

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/service"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetHabitStats godoc
// @Summary Habit completion counters
// @Description Total completions inside the window plus the grouped series
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Param   period query string false "day, week, month or year" default(week)
// @Success 200 {object} util.Response{data=object}
// @Router /api/dashboard/habits [get]
func (c *DashboardController) GetHabitStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	period := ctx.DefaultQuery("period", "week")

	total, err := c.DashboardService.HabitsCompletedCount(claims.UserID, period)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	series, err := c.DashboardService.HabitsCompletedByPeriod(claims.UserID, period)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"total": total, "series": series})
}

// GetLessonStats godoc
// @Summary Completed lessons grouped by school
// @Description Per-period series plus all-time totals for the caller
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Param   period query string false "week, month or year" default(month)
// @Success 200 {object} util.Response{data=object}
// @Router /api/dashboard/lessons [get]
func (c *DashboardController) GetLessonStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	period := ctx.DefaultQuery("period", "month")

	series, schools, err := c.DashboardService.CompletedLessonsBySchool(claims.UserID, period)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	totals, err := c.DashboardService.TotalCompletedBySchool(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"series": series, "schools": schools, "totals": totals})
}
