package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// PurchaseService turns a completed checkout into a Purchase record.
// Payment capture itself happens outside this service; by the time Checkout
// runs the money side is settled.
type PurchaseService struct {
	PurchaseRepo *repository.PurchaseRepository
	CourseRepo   *repository.CourseRepository
}

func NewPurchaseService(purchaseRepo *repository.PurchaseRepository, courseRepo *repository.CourseRepository) *PurchaseService {
	return &PurchaseService{
		PurchaseRepo: purchaseRepo,
		CourseRepo:   courseRepo,
	}
}

// Checkout creates the learner's purchase of a course. It rejects
// unpublished courses, duplicate purchases and courses whose price was never
// set; the unique (learner, course) index backs the pre-check up under
// concurrent checkouts.
func (s *PurchaseService) Checkout(learnerID uint, courseID string) (*model.Purchase, error) {
	course, err := s.CourseRepo.FindPublishedByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	// A null price on a sellable course is rejected here, before any
	// purchase row exists for the aggregator to trip over.
	if course.Price == nil || *course.Price < 0 {
		return nil, util.ErrCoursePriceNotSet
	}

	_, err = s.PurchaseRepo.FindByLearnerAndCourse(learnerID, courseID)
	if err == nil {
		return nil, util.ErrAlreadyPurchased
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	purchase := &model.Purchase{
		LearnerID: learnerID,
		CourseID:  courseID,
	}
	if err := s.PurchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	purchase.Course = course
	return purchase, nil
}

// LearnerPurchases lists the learner's owned courses for the dashboard.
func (s *PurchaseService) LearnerPurchases(learnerID uint) ([]model.Purchase, error) {
	return s.PurchaseRepo.ListByLearner(learnerID)
}
