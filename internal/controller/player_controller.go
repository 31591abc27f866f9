package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PlayerController backs the chapter page: entitlement resolution plus
// progress marking when playback ends.
type PlayerController struct {
	EntitlementService *service.EntitlementService
	ProgressService    *service.ProgressService
}

func NewPlayerController(entitlementService *service.EntitlementService, progressService *service.ProgressService) *PlayerController {
	return &PlayerController{
		EntitlementService: entitlementService,
		ProgressService:    progressService,
	}
}

// @Summary Resolve a chapter for viewing
// @Description Returns the chapter view with lock state, playback data,
// @Description next-chapter navigation and purchase-gated attachments.
// @Tags player
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/chapters/{chapterId} [get]
func (c *PlayerController) GetChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.EntitlementService.ResolveChapterView(
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("chapterId"),
	)
	if err != nil {
		// Missing or unpublished content is an expected outcome; the client
		// redirects to the course list. Nothing to log.
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type progressRequest struct {
	IsCompleted *bool `json:"isCompleted" binding:"required"`
}

// @Summary Mark chapter progress
// @Tags player
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Param body body progressRequest true "completion flag"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/chapters/{chapterId}/progress [put]
func (c *PlayerController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req progressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.MarkProgress(user.UserID, ctx.Param("chapterId"), *req.IsCompleted)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
