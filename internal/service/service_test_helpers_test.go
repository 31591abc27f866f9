package service

import (
	"lms_backend/internal/model"
	"lms_backend/pkg/logger"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	// A fresh connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Chapter{},
		&model.VideoAsset{},
		&model.Attachment{},
		&model.Purchase{},
		&model.UserProgress{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}

func floatPtr(v float64) *float64 {
	return &v
}

func createCourse(t *testing.T, db *gorm.DB, ownerID uint, title string, price *float64, published bool) *model.Course {
	t.Helper()
	course := &model.Course{
		OwnerID:     ownerID,
		Title:       title,
		Price:       price,
		IsPublished: published,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("creating course %q: %v", title, err)
	}
	return course
}

func createChapter(t *testing.T, db *gorm.DB, courseID, title string, position int, free, published bool) *model.Chapter {
	t.Helper()
	chapter := &model.Chapter{
		CourseID:    courseID,
		Title:       title,
		Position:    position,
		IsFree:      free,
		IsPublished: published,
	}
	if err := db.Create(chapter).Error; err != nil {
		t.Fatalf("creating chapter %q: %v", title, err)
	}
	return chapter
}

func createPurchase(t *testing.T, db *gorm.DB, learnerID uint, courseID string) *model.Purchase {
	t.Helper()
	purchase := &model.Purchase{
		LearnerID: learnerID,
		CourseID:  courseID,
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("creating purchase: %v", err)
	}
	return purchase
}
