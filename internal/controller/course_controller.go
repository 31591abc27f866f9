package controller

import (
	"errors"
	"io"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// CourseController exposes the instructor authoring surface for courses:
// CRUD, publish state, image and attachment uploads.
type CourseController struct {
	CourseService  *service.CourseService
	CatalogService *service.CatalogService
	StorageService *service.StorageService
}

func NewCourseController(
	courseService *service.CourseService,
	catalogService *service.CatalogService,
	storageService *service.StorageService,
) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		CatalogService: catalogService,
		StorageService: storageService,
	}
}

type createCourseRequest struct {
	Title string `json:"title" binding:"required"`
}

// @Summary Create a course
// @Tags authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body createCourseRequest true "course title"
// @Success 201 {object} util.Response
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req createCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(user.UserID, req.Title)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary List own courses
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/instructor/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListOwnCourses(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary Get own course with chapters and attachments
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetOwnCourse(user.UserID, ctx.Param("courseId"))
	if err != nil {
		c.respondCourseError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Update course fields
// @Tags authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param body body service.CourseUpdateRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId} [patch]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(user.UserID, ctx.Param("courseId"), req)
	if err != nil {
		c.respondCourseError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Upload course image
// @Tags authoring
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param file formData file true "image file"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/image [post]
func (c *CourseController) UploadImage(ctx *gin.Context) {
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

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ext := filepath.Ext(file.Filename)
	filename := "courses/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course, err := c.CourseService.UpdateCourse(user.UserID, ctx.Param("courseId"), service.CourseUpdateRequest{
		ImageURL: &url,
	})
	if err != nil {
		c.respondCourseError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Publish a course
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/publish [patch]
func (c *CourseController) PublishCourse(ctx *gin.Context) {
	c.setPublished(ctx, true)
}

// @Summary Unpublish a course
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/unpublish [patch]
func (c *CourseController) UnpublishCourse(ctx *gin.Context) {
	c.setPublished(ctx, false)
}

func (c *CourseController) setPublished(ctx *gin.Context, published bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")

	var err error
	if published {
		err = c.CourseService.PublishCourse(user.UserID, courseID)
	} else {
		err = c.CourseService.UnpublishCourse(user.UserID, courseID)
	}
	if err != nil {
		if errors.Is(err, util.ErrCourseIncomplete) {
			util.BadRequest(ctx, err.Error())
			return
		}
		c.respondCourseError(ctx, err)
		return
	}

	c.invalidateCatalog(ctx, user.UserID, courseID)
	util.Success(ctx, gin.H{"isPublished": published})
}

// @Summary Delete a course
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")
	if err := c.CourseService.DeleteCourse(user.UserID, courseID); err != nil {
		c.respondCourseError(ctx, err)
		return
	}

	c.invalidateCatalog(ctx, user.UserID, courseID)
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Upload a course attachment
// @Tags authoring
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param file formData file true "attachment file"
// @Success 201 {object} util.Response
// @Router /api/instructor/courses/{courseId}/attachments [post]
func (c *CourseController) UploadAttachment(ctx *gin.Context) {
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

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	allowed := []string{util.MimePDF, util.MimeImage, util.MimeVideo, util.MimeOctetStream, "text/plain", "application/zip"}
	if _, err := util.ValidateMimeType(src, allowed); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ext := filepath.Ext(file.Filename)
	filename := "attachments/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	attachment, err := c.CourseService.AddAttachment(user.UserID, ctx.Param("courseId"), file.Filename, url)
	if err != nil {
		c.respondCourseError(ctx, err)
		return
	}

	util.Created(ctx, attachment)
}

// @Summary Delete a course attachment
// @Tags authoring
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Param attachmentId path string true "attachment id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{courseId}/attachments/{attachmentId} [delete]
func (c *CourseController) DeleteAttachment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CourseService.DeleteAttachment(user.UserID, ctx.Param("courseId"), ctx.Param("attachmentId"))
	if err != nil {
		if errors.Is(err, util.ErrAttachmentNotFound) {
			util.NotFound(ctx)
			return
		}
		c.respondCourseError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

func (c *CourseController) respondCourseError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrCourseNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}

func (c *CourseController) invalidateCatalog(ctx *gin.Context, ownerID uint, courseID string) {
	course, err := c.CourseService.GetOwnCourse(ownerID, courseID)
	categoryID := ""
	if err == nil && course.CategoryID != nil {
		categoryID = *course.CategoryID
	}
	c.CatalogService.InvalidateCache(ctx.Request.Context(), categoryID)
}
