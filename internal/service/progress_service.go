package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ChapterRepo  *repository.ChapterRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, chapterRepo *repository.ChapterRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ChapterRepo:  chapterRepo,
	}
}

// MarkProgress upserts the learner's completion flag for a chapter. Calling
// it twice with the same value leaves one record behind, not two.
func (s *ProgressService) MarkProgress(learnerID uint, chapterID string, isCompleted bool) (*model.UserProgress, error) {
	progress := &model.UserProgress{
		LearnerID:   learnerID,
		ChapterID:   chapterID,
		IsCompleted: isCompleted,
	}

	if err := s.ProgressRepo.Upsert(progress); err != nil {
		return nil, err
	}

	// Re-read so callers see the persisted record, not the insert attempt.
	return s.ProgressRepo.FindByLearnerAndChapter(learnerID, chapterID)
}

// CourseCompletion returns the learner's completion percentage over the
// course's published chapters. A course without published chapters counts
// as 0 rather than dividing by zero.
func (s *ProgressService) CourseCompletion(learnerID uint, courseID string) (float64, error) {
	chapters, err := s.ChapterRepo.ListPublishedByCourse(courseID)
	if err != nil {
		return 0, err
	}
	if len(chapters) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chapters))
	for i, ch := range chapters {
		ids[i] = ch.ID
	}

	completed, err := s.ProgressRepo.CountCompleted(learnerID, ids)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return float64(completed) / float64(len(chapters)) * 100, nil
}
