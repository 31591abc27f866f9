package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newEntitlementService(db *gorm.DB) *EntitlementService {
	return NewEntitlementService(
		repository.NewCourseRepository(db),
		repository.NewChapterRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewProgressRepository(db),
		repository.NewVideoAssetRepository(db),
		repository.NewAttachmentRepository(db),
	)
}

func TestResolveChapterViewFreeChapterWithoutPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "Intro", 1, true, true)
	asset := &model.VideoAsset{ChapterID: chapter.ID, PlaybackID: "pb-1", Duration: 120}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("creating video asset: %v", err)
	}

	view, err := svc.ResolveChapterView(42, course.ID, chapter.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}

	if view.IsLocked {
		t.Error("free chapter must not be locked without a purchase")
	}
	if view.VideoAsset == nil || view.VideoAsset.PlaybackID != "pb-1" {
		t.Error("viewable chapter must carry its video asset")
	}
	if view.Purchase != nil {
		t.Error("no purchase exists, view must not report one")
	}
	if view.CompleteOnEnd {
		t.Error("completeOnEnd requires an owning purchase")
	}
	if len(view.Attachments) != 0 {
		t.Errorf("attachments are purchase-gated, got %d", len(view.Attachments))
	}
}

func TestResolveChapterViewPaidChapterWithoutPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "Advanced", 1, false, true)
	asset := &model.VideoAsset{ChapterID: chapter.ID, PlaybackID: "pb-2"}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("creating video asset: %v", err)
	}

	view, err := svc.ResolveChapterView(42, course.ID, chapter.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}

	if !view.IsLocked {
		t.Error("paid chapter without purchase must be locked")
	}
	if view.VideoAsset != nil {
		t.Error("locked chapter must not leak playback data")
	}
}

func TestResolveChapterViewWithPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "Advanced", 1, false, true)
	createPurchase(t, db, 42, course.ID)
	attachment := &model.Attachment{CourseID: course.ID, Name: "slides.pdf", URL: "/uploads/slides.pdf"}
	if err := db.Create(attachment).Error; err != nil {
		t.Fatalf("creating attachment: %v", err)
	}

	view, err := svc.ResolveChapterView(42, course.ID, chapter.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}

	if view.IsLocked {
		t.Error("purchased course must unlock paid chapters")
	}
	if view.Purchase == nil {
		t.Error("view must carry the owning purchase")
	}
	if len(view.Attachments) != 1 {
		t.Errorf("purchased view must include course attachments, got %d", len(view.Attachments))
	}
	if !view.CompleteOnEnd {
		t.Error("purchased chapter without completed progress must auto-complete on end")
	}
}

func TestResolveChapterViewCompletedProgressDisablesAutoComplete(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "Advanced", 1, false, true)
	createPurchase(t, db, 42, course.ID)
	progress := &model.UserProgress{LearnerID: 42, ChapterID: chapter.ID, IsCompleted: true}
	if err := db.Create(progress).Error; err != nil {
		t.Fatalf("creating progress: %v", err)
	}

	view, err := svc.ResolveChapterView(42, course.ID, chapter.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}

	if view.CompleteOnEnd {
		t.Error("already-completed chapter must not auto-complete again")
	}
	if view.UserProgress == nil || !view.UserProgress.IsCompleted {
		t.Error("view must carry the learner's progress record")
	}
}

func TestResolveChapterViewNextSkipsUnpublished(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	first := createChapter(t, db, course.ID, "One", 1, true, true)
	createChapter(t, db, course.ID, "Draft", 2, false, false)
	third := createChapter(t, db, course.ID, "Three", 3, false, true)

	view, err := svc.ResolveChapterView(42, course.ID, first.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}

	if view.NextChapter == nil {
		t.Fatal("expected a next chapter")
	}
	if view.NextChapter.ID != third.ID {
		t.Errorf("next chapter must skip drafts, got %q want %q", view.NextChapter.Title, third.Title)
	}
}

func TestResolveChapterViewLastChapterHasNoNext(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	only := createChapter(t, db, course.ID, "One", 1, true, true)

	view, err := svc.ResolveChapterView(42, course.ID, only.ID)
	if err != nil {
		t.Fatalf("ResolveChapterView: %v", err)
	}
	if view.NextChapter != nil {
		t.Errorf("last chapter must have no next, got %q", view.NextChapter.Title)
	}
}

func TestResolveChapterViewNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newEntitlementService(db)

	published := createCourse(t, db, 1, "Visible", floatPtr(10), true)
	draftChapter := createChapter(t, db, published.ID, "Draft", 1, true, false)
	draftCourse := createCourse(t, db, 1, "Hidden", floatPtr(10), false)
	hiddenChapter := createChapter(t, db, draftCourse.ID, "One", 1, true, true)

	cases := []struct {
		name      string
		courseID  string
		chapterID string
		want      error
	}{
		{"unknown course", model.GenerateUUID(), model.GenerateUUID(), util.ErrCourseNotFound},
		{"unpublished course", draftCourse.ID, hiddenChapter.ID, util.ErrCourseNotFound},
		{"unknown chapter", published.ID, model.GenerateUUID(), util.ErrChapterNotFound},
		{"unpublished chapter", published.ID, draftChapter.ID, util.ErrChapterNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ResolveChapterView(42, tc.courseID, tc.chapterID)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
