package controller

import (
	"errors"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogController struct {
	CatalogService *service.CatalogService
	CategoryRepo   *repository.CategoryRepository
}

func NewCatalogController(catalogService *service.CatalogService, categoryRepo *repository.CategoryRepository) *CatalogController {
	return &CatalogController{
		CatalogService: catalogService,
		CategoryRepo:   categoryRepo,
	}
}

// @Summary Browse published courses
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param title query string false "title filter"
// @Param categoryId query string false "category filter"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	// Anonymous browsing is fine; a token adds per-learner progress.
	var learnerID uint
	if user := util.GetUserFromContext(ctx); user != nil {
		learnerID = user.UserID
	}

	courses, err := c.CatalogService.GetCourses(
		ctx.Request.Context(),
		learnerID,
		ctx.Query("title"),
		ctx.Query("categoryId"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary Course landing page
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CatalogController) GetCourseDetail(ctx *gin.Context) {
	var learnerID uint
	if user := util.GetUserFromContext(ctx); user != nil {
		learnerID = user.UserID
	}

	course, purchased, err := c.CatalogService.GetCourseDetail(learnerID, ctx.Param("courseId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":    course,
		"purchased": purchased,
	})
}

// @Summary Learner dashboard
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/dashboard [get]
func (c *CatalogController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.CatalogService.GetDashboard(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CategoryRepo.FindAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
