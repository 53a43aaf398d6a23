package controller

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/service"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type SchoolController struct {
	SchoolService *service.SchoolService
	LevelService  *service.LevelService
}

func NewSchoolController(schoolService *service.SchoolService, levelService *service.LevelService) *SchoolController {
	return &SchoolController{
		SchoolService: schoolService,
		LevelService:  levelService,
	}
}

// GetSchools godoc
// @Summary List schools with unlock state
// @Description All schools annotated with whether the caller's XP unlocks them
// @Tags schools
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.SchoolView}
// @Router /api/schools [get]
func (c *SchoolController) GetSchools(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	schools, err := c.SchoolService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, schools)
}

type SchoolRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	UnlockXP    int    `json:"unlockXp"`
	Position    int    `json:"position"`
}

// UpsertSchool godoc
// @Summary Create or update a school
// @Tags schools
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SchoolRequest true "school payload"
// @Success 200 {object} util.Response{data=model.School}
// @Failure 400 {object} util.Response
// @Router /api/admin/schools [post]
func (c *SchoolController) UpsertSchool(ctx *gin.Context) {
	var req SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	school := &model.School{
		Name:        req.Name,
		Description: req.Description,
		UnlockXP:    req.UnlockXP,
		Position:    req.Position,
	}
	if err := c.SchoolService.Upsert(school); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, school)
}

// GetLevels godoc
// @Summary Level ladder
// @Description The shared XP thresholds, in ascending order
// @Tags levels
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Level}
// @Router /api/levels [get]
func (c *SchoolController) GetLevels(ctx *gin.Context) {
	levels, err := c.LevelService.ListLevels()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, levels)
}
