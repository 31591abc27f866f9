package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewChapterRepository(db),
		repository.NewVideoAssetRepository(db),
		repository.NewAttachmentRepository(db),
		repository.NewCategoryRepository(db),
	)
}

func strPtr(s string) *string {
	return &s
}

func TestCreateChapterAppendsToEnd(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)

	first, err := svc.CreateChapter(1, course.ID, "One")
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	second, err := svc.CreateChapter(1, course.ID, "Two")
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}

	if first.Position != 1 || second.Position != 2 {
		t.Errorf("positions = %d, %d; want 1, 2", first.Position, second.Position)
	}
}

func TestCreateChapterRejectsForeignCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)

	if _, err := svc.CreateChapter(2, course.ID, "Intruder"); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("got %v, want ErrCourseNotFound for another owner's course", err)
	}
}

func TestReorderChapters(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)
	a := createChapter(t, db, course.ID, "A", 1, false, false)
	b := createChapter(t, db, course.ID, "B", 2, false, false)
	c := createChapter(t, db, course.ID, "C", 3, false, false)

	if err := svc.ReorderChapters(1, course.ID, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("ReorderChapters: %v", err)
	}

	chapters, err := svc.ChapterRepo.ListByCourse(course.ID)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	got := []string{chapters[0].Title, chapters[1].Title, chapters[2].Title}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReorderChaptersRejectsPartialList(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)
	a := createChapter(t, db, course.ID, "A", 1, false, false)
	createChapter(t, db, course.ID, "B", 2, false, false)

	if err := svc.ReorderChapters(1, course.ID, []string{a.ID}); err == nil {
		t.Error("reorder with a missing chapter must fail")
	}
	if err := svc.ReorderChapters(1, course.ID, []string{a.ID, model.GenerateUUID()}); !errors.Is(err, util.ErrChapterNotFound) {
		t.Errorf("got %v, want ErrChapterNotFound for an unknown id", err)
	}
}

func TestPublishChapterRequiresVideo(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)
	chapter, err := svc.CreateChapter(1, course.ID, "One")
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	if _, err := svc.UpdateChapter(1, course.ID, chapter.ID, ChapterUpdateRequest{
		Description: strPtr("What you will learn."),
	}); err != nil {
		t.Fatalf("UpdateChapter: %v", err)
	}

	if err := svc.PublishChapter(1, course.ID, chapter.ID); !errors.Is(err, util.ErrChapterIncomplete) {
		t.Errorf("got %v, want ErrChapterIncomplete without a video", err)
	}

	if _, err := svc.AttachChapterVideo(1, course.ID, chapter.ID, "/uploads/videos/one.mp4", "pb-1", "", nil); err != nil {
		t.Fatalf("AttachChapterVideo: %v", err)
	}
	if err := svc.PublishChapter(1, course.ID, chapter.ID); err != nil {
		t.Errorf("PublishChapter after video upload: %v", err)
	}
}

func TestPublishCourseRequiresCompleteness(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	category := &model.Category{Name: "Programming"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("creating category: %v", err)
	}

	course := createCourse(t, db, 1, "Go Basics", nil, false)

	if err := svc.PublishCourse(1, course.ID); !errors.Is(err, util.ErrCourseIncomplete) {
		t.Errorf("got %v, want ErrCourseIncomplete for a bare course", err)
	}

	if _, err := svc.UpdateCourse(1, course.ID, CourseUpdateRequest{
		Description: strPtr("Learn Go from scratch."),
		ImageURL:    strPtr("/uploads/courses/go.png"),
		CategoryID:  &category.ID,
	}); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	// Still no published chapter.
	if err := svc.PublishCourse(1, course.ID); !errors.Is(err, util.ErrCourseIncomplete) {
		t.Errorf("got %v, want ErrCourseIncomplete without published chapters", err)
	}

	createChapter(t, db, course.ID, "One", 1, true, true)

	if err := svc.PublishCourse(1, course.ID); err != nil {
		t.Fatalf("PublishCourse: %v", err)
	}

	published, err := svc.CourseRepo.FindPublishedByID(course.ID)
	if err != nil {
		t.Fatalf("course should be live: %v", err)
	}
	if !published.IsPublished {
		t.Error("IsPublished flag not set")
	}
}

func TestUnpublishLastChapterHidesCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "One", 1, true, true)

	if err := svc.UnpublishChapter(1, course.ID, chapter.ID); err != nil {
		t.Fatalf("UnpublishChapter: %v", err)
	}

	var reloaded model.Course
	if err := db.First(&reloaded, "id = ?", course.ID).Error; err != nil {
		t.Fatalf("reloading course: %v", err)
	}
	if reloaded.IsPublished {
		t.Error("a course with no published chapters must go dark")
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", floatPtr(10), true)
	chapter := createChapter(t, db, course.ID, "One", 1, true, true)
	if _, err := svc.AttachChapterVideo(1, course.ID, chapter.ID, "/uploads/videos/one.mp4", "pb-1", "", nil); err != nil {
		t.Fatalf("AttachChapterVideo: %v", err)
	}
	if _, err := svc.AddAttachment(1, course.ID, "slides.pdf", "/uploads/slides.pdf"); err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	progress := &model.UserProgress{LearnerID: 42, ChapterID: chapter.ID, IsCompleted: true}
	if err := db.Create(progress).Error; err != nil {
		t.Fatalf("creating progress: %v", err)
	}

	if err := svc.DeleteCourse(1, course.ID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"chapters", &model.Chapter{}},
		{"video assets", &model.VideoAsset{}},
		{"attachments", &model.Attachment{}},
		{"progress", &model.UserProgress{}},
	} {
		var count int64
		db.Model(probe.model).Count(&count)
		if count != 0 {
			t.Errorf("%s not cleaned up, %d rows left", probe.name, count)
		}
	}
}

func TestAttachChapterVideoReplacesAsset(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := createCourse(t, db, 1, "Go Basics", nil, false)
	chapter := createChapter(t, db, course.ID, "One", 1, false, false)

	if _, err := svc.AttachChapterVideo(1, course.ID, chapter.ID, "/uploads/videos/v1.mp4", "pb-1", "", nil); err != nil {
		t.Fatalf("first AttachChapterVideo: %v", err)
	}
	info := &util.VideoInfo{Duration: 300, Width: 1920, Height: 1080}
	if _, err := svc.AttachChapterVideo(1, course.ID, chapter.ID, "/uploads/videos/v2.mp4", "pb-2", "/uploads/thumbnails/v2.jpg", info); err != nil {
		t.Fatalf("second AttachChapterVideo: %v", err)
	}

	var assets []model.VideoAsset
	if err := db.Where("chapter_id = ?", chapter.ID).Find(&assets).Error; err != nil {
		t.Fatalf("listing assets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("re-upload must replace the asset, got %d rows", len(assets))
	}
	if assets[0].PlaybackID != "pb-2" || assets[0].Duration != 300 {
		t.Errorf("asset not replaced: %+v", assets[0])
	}
	if assets[0].ThumbnailURL != "/uploads/thumbnails/v2.jpg" {
		t.Errorf("thumbnail url not stored, got %q", assets[0].ThumbnailURL)
	}
}
