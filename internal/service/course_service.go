package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService covers the instructor authoring flows: course and chapter
// CRUD, ordering, and the publish state machine.
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	ChapterRepo    *repository.ChapterRepository
	VideoAssetRepo *repository.VideoAssetRepository
	AttachmentRepo *repository.AttachmentRepository
	CategoryRepo   *repository.CategoryRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	chapterRepo *repository.ChapterRepository,
	videoAssetRepo *repository.VideoAssetRepository,
	attachmentRepo *repository.AttachmentRepository,
	categoryRepo *repository.CategoryRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		ChapterRepo:    chapterRepo,
		VideoAssetRepo: videoAssetRepo,
		AttachmentRepo: attachmentRepo,
		CategoryRepo:   categoryRepo,
	}
}

type CourseUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price"`
	CategoryID  *string  `json:"categoryId"`
}

type ChapterUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFree      *bool   `json:"isFree"`
}

func (s *CourseService) CreateCourse(ownerID uint, title string) (*model.Course, error) {
	course := &model.Course{
		OwnerID: ownerID,
		Title:   title,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListOwnCourses(ownerID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByOwner(ownerID)
}

func (s *CourseService) getOwnedCourse(ownerID uint, courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindOwned(courseID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetOwnCourse(ownerID uint, courseID string) (*model.Course, error) {
	course, err := s.getOwnedCourse(ownerID, courseID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.ChapterRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.Chapters = chapters

	attachments, err := s.AttachmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.Attachments = attachments

	return course, nil
}

func (s *CourseService) UpdateCourse(ownerID uint, courseID string, req CourseUpdateRequest) (*model.Course, error) {
	course, err := s.getOwnedCourse(ownerID, courseID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("price must be non-negative")
		}
		fields["price"] = *req.Price
	}
	if req.CategoryID != nil {
		if _, err := s.CategoryRepo.FindByID(*req.CategoryID); err != nil {
			return nil, errors.New("unknown category")
		}
		fields["category_id"] = *req.CategoryID
	}

	if len(fields) == 0 {
		return course, nil
	}

	if err := s.CourseRepo.Updates(course, fields); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindByID(courseID)
}

// PublishCourse flips the course live. It refuses until the course has a
// title, description, image, category and at least one published chapter.
func (s *CourseService) PublishCourse(ownerID uint, courseID string) error {
	course, err := s.getOwnedCourse(ownerID, courseID)
	if err != nil {
		return err
	}

	publishedChapters, err := s.ChapterRepo.CountPublished(courseID)
	if err != nil {
		return err
	}

	if course.Title == "" || course.Description == "" || course.ImageURL == "" ||
		course.CategoryID == nil || publishedChapters == 0 {
		return util.ErrCourseIncomplete
	}

	return s.CourseRepo.SetPublished(courseID, true)
}

func (s *CourseService) UnpublishCourse(ownerID uint, courseID string) error {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return err
	}
	return s.CourseRepo.SetPublished(courseID, false)
}

func (s *CourseService) DeleteCourse(ownerID uint, courseID string) error {
	course, err := s.getOwnedCourse(ownerID, courseID)
	if err != nil {
		return err
	}
	return s.CourseRepo.Delete(course)
}

func (s *CourseService) CreateChapter(ownerID uint, courseID, title string) (*model.Chapter, error) {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return nil, err
	}

	maxPos, err := s.ChapterRepo.MaxPosition(courseID)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		CourseID: courseID,
		Title:    title,
		Position: maxPos + 1,
	}
	if err := s.ChapterRepo.Create(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *CourseService) getOwnedChapter(ownerID uint, courseID, chapterID string) (*model.Chapter, error) {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return nil, err
	}
	chapter, err := s.ChapterRepo.FindInCourse(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

func (s *CourseService) UpdateChapter(ownerID uint, courseID, chapterID string, req ChapterUpdateRequest) (*model.Chapter, error) {
	chapter, err := s.getOwnedChapter(ownerID, courseID, chapterID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsFree != nil {
		fields["is_free"] = *req.IsFree
	}

	if len(fields) == 0 {
		return chapter, nil
	}

	if err := s.ChapterRepo.Updates(chapter, fields); err != nil {
		return nil, err
	}
	return s.ChapterRepo.FindByID(chapterID)
}

func (s *CourseService) ReorderChapters(ownerID uint, courseID string, orderedIDs []string) error {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return err
	}

	chapters, err := s.ChapterRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(chapters) {
		return errors.New("reorder list must contain every chapter of the course exactly once")
	}
	known := make(map[string]bool, len(chapters))
	for _, ch := range chapters {
		known[ch.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return util.ErrChapterNotFound
		}
		delete(known, id)
	}

	return s.ChapterRepo.Reorder(courseID, orderedIDs)
}

// PublishChapter requires a title, description and uploaded video.
func (s *CourseService) PublishChapter(ownerID uint, courseID, chapterID string) error {
	chapter, err := s.getOwnedChapter(ownerID, courseID, chapterID)
	if err != nil {
		return err
	}

	if chapter.Title == "" || chapter.Description == "" || chapter.VideoURL == "" {
		return util.ErrChapterIncomplete
	}

	return s.ChapterRepo.SetPublished(chapterID, true)
}

// UnpublishChapter hides the chapter; when it was the course's last
// published chapter, the course goes dark with it.
func (s *CourseService) UnpublishChapter(ownerID uint, courseID, chapterID string) error {
	if _, err := s.getOwnedChapter(ownerID, courseID, chapterID); err != nil {
		return err
	}

	if err := s.ChapterRepo.SetPublished(chapterID, false); err != nil {
		return err
	}

	return s.unpublishCourseIfEmpty(courseID)
}

func (s *CourseService) DeleteChapter(ownerID uint, courseID, chapterID string) error {
	chapter, err := s.getOwnedChapter(ownerID, courseID, chapterID)
	if err != nil {
		return err
	}

	if err := s.ChapterRepo.Delete(chapter); err != nil {
		return err
	}

	return s.unpublishCourseIfEmpty(courseID)
}

func (s *CourseService) unpublishCourseIfEmpty(courseID string) error {
	remaining, err := s.ChapterRepo.CountPublished(courseID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.CourseRepo.SetPublished(courseID, false)
	}
	return nil
}

// AttachChapterVideo records the uploaded video on the chapter along with
// its probed playback metadata.
func (s *CourseService) AttachChapterVideo(ownerID uint, courseID, chapterID, videoURL, playbackID, thumbnailURL string, info *util.VideoInfo) (*model.VideoAsset, error) {
	chapter, err := s.getOwnedChapter(ownerID, courseID, chapterID)
	if err != nil {
		return nil, err
	}

	if err := s.ChapterRepo.Updates(chapter, map[string]interface{}{"video_url": videoURL}); err != nil {
		return nil, err
	}

	asset := &model.VideoAsset{
		ChapterID:    chapterID,
		PlaybackID:   playbackID,
		ThumbnailURL: thumbnailURL,
	}
	if info != nil {
		asset.Duration = info.Duration
		asset.Width = info.Width
		asset.Height = info.Height
	}

	if err := s.VideoAssetRepo.Replace(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// AddAttachment stores an uploaded supplementary file against the course.
func (s *CourseService) AddAttachment(ownerID uint, courseID, name, url string) (*model.Attachment, error) {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		CourseID: courseID,
		Name:     name,
		URL:      url,
	}
	if err := s.AttachmentRepo.Create(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *CourseService) DeleteAttachment(ownerID uint, courseID, attachmentID string) error {
	if _, err := s.getOwnedCourse(ownerID, courseID); err != nil {
		return err
	}

	attachment, err := s.AttachmentRepo.FindInCourse(attachmentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAttachmentNotFound
		}
		return err
	}
	return s.AttachmentRepo.Delete(attachment)
}
