package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert creates the (learner, chapter) record or overwrites its completion
// flag. Last write wins; repeating the same value is a no-op in effect.
func (r *ProgressRepository) Upsert(progress *model.UserProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
	}).Create(progress).Error
}

func (r *ProgressRepository) FindByLearnerAndChapter(learnerID uint, chapterID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.
		Where("learner_id = ? AND chapter_id = ?", learnerID, chapterID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CountCompleted counts completed records among the given chapters.
func (r *ProgressRepository) CountCompleted(learnerID uint, chapterIDs []string) (int64, error) {
	if len(chapterIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("learner_id = ? AND chapter_id IN ? AND is_completed = ?", learnerID, chapterIDs, true).
		Count(&count).Error
	return count, err
}
