package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindOwned returns the course only when it belongs to ownerID; authoring
// endpoints use it so one instructor can never touch another's course.
func (r *CourseRepository) FindOwned(id string, ownerID uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindPublishedByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ? AND is_published = ?", id, true).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindPublishedWithChapters loads the catalog detail view: published
// chapters in position order, category joined.
func (r *CourseRepository) FindPublishedWithChapters(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Category").
		Where("id = ? AND is_published = ?", id, true).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListPublished filters the catalog by optional title substring and category.
func (r *CourseRepository) ListPublished(title, categoryID string) ([]model.Course, error) {
	query := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Category").
		Where("is_published = ?", true)

	if title != "" {
		query = query.Where("title LIKE ?", "%"+title+"%")
	}
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var courses []model.Course
	err := query.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByOwner(ownerID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Updates(course *model.Course, fields map[string]interface{}) error {
	return r.DB.Model(course).Updates(fields).Error
}

func (r *CourseRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

// Delete removes the course and its dependents in one transaction.
// Dependents are hard-deleted: their unique indexes cover soft-deleted rows
// too, so a lingering row would block later inserts that reuse the slot.
func (r *CourseRepository) Delete(course *model.Course) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []string
		if err := tx.Model(&model.Chapter{}).
			Where("course_id = ?", course.ID).
			Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}

		if len(chapterIDs) > 0 {
			if err := tx.Unscoped().Where("chapter_id IN ?", chapterIDs).Delete(&model.VideoAsset{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("chapter_id IN ?", chapterIDs).Delete(&model.UserProgress{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(course).Error
	})
}
