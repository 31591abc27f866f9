package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"testing"

	"gorm.io/gorm"
)

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewChapterRepository(db),
	)
}

func TestMarkProgressIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "One", 1, true, true)

	first, err := svc.MarkProgress(42, chapter.ID, true)
	if err != nil {
		t.Fatalf("first MarkProgress: %v", err)
	}
	second, err := svc.MarkProgress(42, chapter.ID, true)
	if err != nil {
		t.Fatalf("second MarkProgress: %v", err)
	}

	if first.ID != second.ID {
		t.Error("repeated marks must update the same record")
	}

	var count int64
	db.Model(&model.UserProgress{}).
		Where("learner_id = ? AND chapter_id = ?", 42, chapter.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one progress record, got %d", count)
	}
}

func TestMarkProgressOverwritesCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "One", 1, true, true)

	if _, err := svc.MarkProgress(42, chapter.ID, true); err != nil {
		t.Fatalf("MarkProgress(true): %v", err)
	}
	progress, err := svc.MarkProgress(42, chapter.ID, false)
	if err != nil {
		t.Fatalf("MarkProgress(false): %v", err)
	}

	if progress.IsCompleted {
		t.Error("last write must win, expected IsCompleted=false")
	}
}

func TestMarkProgressIsPerLearner(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "One", 1, true, true)

	if _, err := svc.MarkProgress(42, chapter.ID, true); err != nil {
		t.Fatalf("MarkProgress learner 42: %v", err)
	}
	if _, err := svc.MarkProgress(43, chapter.ID, true); err != nil {
		t.Fatalf("MarkProgress learner 43: %v", err)
	}

	var count int64
	db.Model(&model.UserProgress{}).Where("chapter_id = ?", chapter.ID).Count(&count)
	if count != 2 {
		t.Errorf("each learner keeps an own record, got %d", count)
	}
}

func TestCourseCompletionCountsPublishedChaptersOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	one := createChapter(t, db, course.ID, "One", 1, true, true)
	createChapter(t, db, course.ID, "Two", 2, false, true)
	createChapter(t, db, course.ID, "Draft", 3, false, false)

	if _, err := svc.MarkProgress(42, one.ID, true); err != nil {
		t.Fatalf("MarkProgress: %v", err)
	}

	pct, err := svc.CourseCompletion(42, course.ID)
	if err != nil {
		t.Fatalf("CourseCompletion: %v", err)
	}
	if pct != 50 {
		t.Errorf("completion = %v, want 50", pct)
	}
}

func TestCourseCompletionEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	course := createCourse(t, db, 1, "Empty", floatPtr(10), true)

	pct, err := svc.CourseCompletion(42, course.ID)
	if err != nil {
		t.Fatalf("CourseCompletion: %v", err)
	}
	if pct != 0 {
		t.Errorf("completion of a chapterless course = %v, want 0", pct)
	}
}
