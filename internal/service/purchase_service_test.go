package service

import (
	"errors"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newPurchaseService(db *gorm.DB) *PurchaseService {
	return NewPurchaseService(
		repository.NewPurchaseRepository(db),
		repository.NewCourseRepository(db),
	)
}

func TestCheckoutCreatesPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)

	purchase, err := svc.Checkout(42, course.ID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if purchase.LearnerID != 42 || purchase.CourseID != course.ID {
		t.Errorf("purchase keyed wrong: %+v", purchase)
	}
	if purchase.Course == nil || purchase.Course.Title != "Go Basics" {
		t.Error("checkout must return the purchased course")
	}
}

func TestCheckoutRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)

	if _, err := svc.Checkout(42, course.ID); err != nil {
		t.Fatalf("first Checkout: %v", err)
	}
	if _, err := svc.Checkout(42, course.ID); !errors.Is(err, util.ErrAlreadyPurchased) {
		t.Errorf("got %v, want ErrAlreadyPurchased", err)
	}

	// A different learner still checks out fine.
	if _, err := svc.Checkout(43, course.ID); err != nil {
		t.Errorf("other learner's Checkout: %v", err)
	}
}

func TestCheckoutRejectsMissingPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	course := createCourse(t, db, 1, "Unpriced", nil, true)

	if _, err := svc.Checkout(42, course.ID); !errors.Is(err, util.ErrCoursePriceNotSet) {
		t.Errorf("got %v, want ErrCoursePriceNotSet", err)
	}
}

func TestCheckoutRejectsUnpublishedCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	course := createCourse(t, db, 1, "Draft", floatPtr(10), false)

	if _, err := svc.Checkout(42, course.ID); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("got %v, want ErrCourseNotFound", err)
	}
}

func TestLearnerPurchases(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	courseA := createCourse(t, db, 1, "A", floatPtr(10), true)
	courseB := createCourse(t, db, 1, "B", floatPtr(20), true)
	createPurchase(t, db, 42, courseA.ID)
	createPurchase(t, db, 42, courseB.ID)
	createPurchase(t, db, 43, courseA.ID)

	purchases, err := svc.LearnerPurchases(42)
	if err != nil {
		t.Fatalf("LearnerPurchases: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("got %d purchases, want 2", len(purchases))
	}
	for _, p := range purchases {
		if p.Course == nil {
			t.Error("each purchase must carry its course")
		}
	}
}
