package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type VideoAssetRepository struct {
	DB *gorm.DB
}

func NewVideoAssetRepository(db *gorm.DB) *VideoAssetRepository {
	return &VideoAssetRepository{DB: db}
}

// Replace drops any previous asset of the chapter before inserting the new
// one; a chapter carries at most one video.
func (r *VideoAssetRepository) Replace(asset *model.VideoAsset) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// Hard delete: the chapter_id unique index covers soft-deleted rows
		// and would reject the replacement.
		if err := tx.Unscoped().Where("chapter_id = ?", asset.ChapterID).
			Delete(&model.VideoAsset{}).Error; err != nil {
			return err
		}
		return tx.Create(asset).Error
	})
}

func (r *VideoAssetRepository) FindByChapter(chapterID string) (*model.VideoAsset, error) {
	var asset model.VideoAsset
	err := r.DB.Where("chapter_id = ?", chapterID).First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *VideoAssetRepository) DeleteByChapter(chapterID string) error {
	return r.DB.Unscoped().Where("chapter_id = ?", chapterID).Delete(&model.VideoAsset{}).Error
}
