package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// EntitlementService decides whether a learner may view a chapter and
// assembles everything the chapter page needs in one shot. Unlike the
// analytics path this one fails loudly: a wrong lock state is a content
// access bug, so store errors are never swallowed.
type EntitlementService struct {
	CourseRepo     *repository.CourseRepository
	ChapterRepo    *repository.ChapterRepository
	PurchaseRepo   *repository.PurchaseRepository
	ProgressRepo   *repository.ProgressRepository
	VideoAssetRepo *repository.VideoAssetRepository
	AttachmentRepo *repository.AttachmentRepository
}

func NewEntitlementService(
	courseRepo *repository.CourseRepository,
	chapterRepo *repository.ChapterRepository,
	purchaseRepo *repository.PurchaseRepository,
	progressRepo *repository.ProgressRepository,
	videoAssetRepo *repository.VideoAssetRepository,
	attachmentRepo *repository.AttachmentRepository,
) *EntitlementService {
	return &EntitlementService{
		CourseRepo:     courseRepo,
		ChapterRepo:    chapterRepo,
		PurchaseRepo:   purchaseRepo,
		ProgressRepo:   progressRepo,
		VideoAssetRepo: videoAssetRepo,
		AttachmentRepo: attachmentRepo,
	}
}

// ChapterView bundles the chapter page payload: the chapter itself, its
// course, playback and navigation data, and the per-learner access state.
type ChapterView struct {
	Chapter       *model.Chapter      `json:"chapter"`
	Course        *model.Course       `json:"course"`
	VideoAsset    *model.VideoAsset   `json:"videoAsset,omitempty"`
	Attachments   []model.Attachment  `json:"attachments"`
	NextChapter   *model.Chapter      `json:"nextChapter,omitempty"`
	UserProgress  *model.UserProgress `json:"userProgress,omitempty"`
	Purchase      *model.Purchase     `json:"purchase,omitempty"`
	IsLocked      bool                `json:"isLocked"`
	CompleteOnEnd bool                `json:"completeOnEnd"`
}

// ResolveChapterView resolves the access state of (learner, course, chapter).
// Missing or unpublished records come back as ErrCourseNotFound /
// ErrChapterNotFound so the caller can redirect; anything else is a
// retrieval failure and propagates untouched.
func (s *EntitlementService) ResolveChapterView(learnerID uint, courseID, chapterID string) (*ChapterView, error) {
	course, err := s.CourseRepo.FindPublishedByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	chapter, err := s.ChapterRepo.FindPublishedInCourse(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	purchase, err := s.PurchaseRepo.FindByLearnerAndCourse(learnerID, courseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The single governing rule: free chapters are always visible, paid
	// chapters require an owning purchase.
	isLocked := !chapter.IsFree && purchase == nil

	view := &ChapterView{
		Chapter:     chapter,
		Course:      course,
		Purchase:    purchase,
		IsLocked:    isLocked,
		Attachments: []model.Attachment{},
	}

	// Playback data only leaves the backend when the chapter is viewable.
	if !isLocked {
		asset, err := s.VideoAssetRepo.FindByChapter(chapterID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		view.VideoAsset = asset
	}

	progress, err := s.ProgressRepo.FindByLearnerAndChapter(learnerID, chapterID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	view.UserProgress = progress

	next, err := s.ChapterRepo.FindNextPublished(courseID, chapter.Position)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	view.NextChapter = next

	// Attachments are purchase-gated, not chapter-gated.
	if purchase != nil {
		attachments, err := s.AttachmentRepo.FindByCourse(courseID)
		if err != nil {
			return nil, err
		}
		view.Attachments = attachments
	}

	view.CompleteOnEnd = purchase != nil && !(progress != nil && progress.IsCompleted)

	return view, nil
}
