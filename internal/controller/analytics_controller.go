package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary Instructor revenue analytics
// @Description Per-course revenue plus grand totals over the instructor's
// @Description sales. Always answers 200; a failed metrics query yields the
// @Description zero-valued payload instead of an error page.
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/instructor/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.AnalyticsService.GetAnalytics(user.UserID))
}
