package controller

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChapterController exposes the instructor authoring surface for chapters,
// including ordering and video upload.
type ChapterController struct {
	CourseService  *service.CourseService
	CatalogService *service.CatalogService
	StorageService *service.StorageService
}

func NewChapterController(
	courseService *service.CourseService,
	catalogService *service.CatalogService,
	storageService *service.StorageService,
) *ChapterController {
	return &ChapterController{
		CourseService:  courseService,
		CatalogService: catalogService,
		StorageService: storageService,
	}
}

type createChapterRequest struct {
	Title string `json:"title" binding:"required"`
}

type reorderRequest struct {
	ChapterIDs []string `json:"chapterIds" binding:"required"`
}

// @Summary Create a chapter
// @Tags authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param body body createChapterRequest true "chapter title"
// @Success 201 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters [post]
func (c *ChapterController) CreateChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req createChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.CourseService.CreateChapter(user.UserID, ctx.Param("courseId"), req.Title)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	util.Created(ctx, chapter)
}

// @Summary Update chapter fields
// @Tags authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Param body body service.ChapterUpdateRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/{chapterId} [patch]
func (c *ChapterController) UpdateChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChapterUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.CourseService.UpdateChapter(user.UserID, ctx.Param("courseId"), ctx.Param("chapterId"), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	util.Success(ctx, chapter)
}

// @Summary Reorder chapters
// @Tags authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param body body reorderRequest true "chapter ids in the new order"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/reorder [put]
func (c *ChapterController) ReorderChapters(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.ReorderChapters(user.UserID, ctx.Param("courseId"), req.ChapterIDs); err != nil {
		if errors.Is(err, util.ErrChapterNotFound) || errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"reordered": true})
}

// @Summary Upload chapter video
// @Description Stores the video, probes its metadata and registers the
// @Description playback asset for the chapter.
// @Tags authoring
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Param file formData file true "video file"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/{chapterId}/video [post]
func (c *ChapterController) UploadVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	ext := filepath.Ext(file.Filename)
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "unsupported video extension: "+ext)
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// Containers such as mkv and avi sniff as octet-stream.
	_, err = util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	src.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// Stage the upload locally so it can be probed before it ships to the
	// storage backend.
	tmpPath := filepath.Join(os.TempDir(), "chapter_video_"+util.GenerateRandomString(8)+ext)
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		logger.Log.Warn("video probe failed, storing without metadata", zap.Error(err))
		info = nil
	}

	stamp := time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6)
	filename := "videos/" + stamp + ext
	url, err := c.StorageService.UploadFile(ctx.Request.Context(), filename, tmpPath, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	asset, err := c.CourseService.AttachChapterVideo(
		user.UserID,
		ctx.Param("courseId"),
		ctx.Param("chapterId"),
		url,
		model.GenerateUUID(),
		c.generateThumbnail(ctx, tmpPath, stamp),
		info,
	)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	util.Success(ctx, asset)
}

// @Summary Publish a chapter
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/{chapterId}/publish [patch]
func (c *ChapterController) PublishChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CourseService.PublishChapter(user.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		if errors.Is(err, util.ErrChapterIncomplete) {
			util.BadRequest(ctx, err.Error())
			return
		}
		c.respondError(ctx, err)
		return
	}

	c.invalidateCatalog(ctx, user.UserID, ctx.Param("courseId"))
	util.Success(ctx, gin.H{"isPublished": true})
}

// @Summary Unpublish a chapter
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/{chapterId}/unpublish [patch]
func (c *ChapterController) UnpublishChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CourseService.UnpublishChapter(user.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	c.invalidateCatalog(ctx, user.UserID, ctx.Param("courseId"))
	util.Success(ctx, gin.H{"isPublished": false})
}

// @Summary Delete a chapter
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param chapterId path string true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/chapters/{chapterId} [delete]
func (c *ChapterController) DeleteChapter(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CourseService.DeleteChapter(user.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	c.invalidateCatalog(ctx, user.UserID, ctx.Param("courseId"))
	util.Success(ctx, gin.H{"deleted": true})
}

// generateThumbnail grabs a frame from the staged video and ships it to the
// storage backend. A player can render without a poster, so failures only log.
func (c *ChapterController) generateThumbnail(ctx *gin.Context, videoPath, stamp string) string {
	thumbPath := filepath.Join(os.TempDir(), "chapter_thumb_"+stamp+".jpg")
	if err := util.GenerateThumbnail(videoPath, thumbPath, "3"); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.Error(err))
		return ""
	}
	defer os.Remove(thumbPath)

	url, err := c.StorageService.UploadFile(ctx.Request.Context(), "thumbnails/"+stamp+".jpg", thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("thumbnail upload failed", zap.Error(err))
		return ""
	}
	return url
}

func (c *ChapterController) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrChapterNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}

func (c *ChapterController) invalidateCatalog(ctx *gin.Context, ownerID uint, courseID string) {
	course, err := c.CourseService.GetOwnCourse(ownerID, courseID)
	categoryID := ""
	if err == nil && course.CategoryID != nil {
		categoryID = *course.CategoryID
	}
	c.CatalogService.InvalidateCache(ctx.Request.Context(), categoryID)
}
