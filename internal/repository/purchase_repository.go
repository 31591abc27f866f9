package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Create(purchase *model.Purchase) error {
	return r.DB.Create(purchase).Error
}

// FindByLearnerAndCourse returns the owning purchase or
// gorm.ErrRecordNotFound when the learner never bought the course.
func (r *PurchaseRepository) FindByLearnerAndCourse(learnerID uint, courseID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.DB.
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FindByCourseOwner fetches every purchase of any course owned by
// instructorID, with the course row joined in for pricing and titles.
func (r *PurchaseRepository) FindByCourseOwner(instructorID uint) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.DB.
		Joins("JOIN courses ON courses.id = purchases.course_id").
		Where("courses.owner_id = ?", instructorID).
		Preload("Course").
		Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) ListByLearner(learnerID uint) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.DB.
		Where("learner_id = ?", learnerID).
		Preload("Course").
		Find(&purchases).Error
	return purchases, err
}
