package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Where("id = ?", id).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// FindInCourse scopes the lookup to one course so a chapter id from another
// course can never resolve.
func (r *ChapterRepository) FindInCourse(id, courseID string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Where("id = ? AND course_id = ?", id, courseID).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) FindPublishedInCourse(id, courseID string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.
		Where("id = ? AND course_id = ? AND is_published = ?", id, courseID, true).
		First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// FindNextPublished returns the published chapter with the smallest position
// strictly greater than position, or gorm.ErrRecordNotFound when the chapter
// is the last one.
func (r *ChapterRepository) FindNextPublished(courseID string, position int) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.
		Where("course_id = ? AND is_published = ? AND position > ?", courseID, true, position).
		Order("position ASC").
		First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) ListByCourse(courseID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("course_id = ?", courseID).Order("position ASC").Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) ListPublishedByCourse(courseID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("position ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) MaxPosition(courseID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ChapterRepository) CountPublished(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *ChapterRepository) Updates(chapter *model.Chapter, fields map[string]interface{}) error {
	return r.DB.Model(chapter).Updates(fields).Error
}

func (r *ChapterRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Chapter{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

// Reorder rewrites chapter positions inside one transaction. Positions are
// parked outside the live range first so the (course, position) unique index
// never trips mid-update.
func (r *ChapterRepository) Reorder(courseID string, orderedIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		const park = 1000000
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Chapter{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("position", park+i).Error; err != nil {
				return err
			}
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Chapter{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete hard-deletes the chapter and its dependents. The (course, position)
// unique index covers soft-deleted rows, so a soft-deleted chapter would
// block a later chapter from taking its position.
func (r *ChapterRepository) Delete(chapter *model.Chapter) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("chapter_id = ?", chapter.ID).Delete(&model.VideoAsset{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("chapter_id = ?", chapter.ID).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(chapter).Error
	})
}
