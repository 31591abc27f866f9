package service

import (
	"context"
	"encoding/json"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	catalogCacheKeyPrefix = "catalog:"
	catalogCacheTTL       = 5 * time.Minute
)

// CatalogService serves the learner-facing browse pages: published courses
// with the learner's progress folded in. The raw catalog (before per-learner
// progress) is cached in Redis per category filter.
type CatalogService struct {
	CourseRepo      *repository.CourseRepository
	PurchaseRepo    *repository.PurchaseRepository
	ProgressService *ProgressService
	Redis           *redis.Client
}

func NewCatalogService(
	courseRepo *repository.CourseRepository,
	purchaseRepo *repository.PurchaseRepository,
	progressService *ProgressService,
	rdb *redis.Client,
) *CatalogService {
	return &CatalogService{
		CourseRepo:      courseRepo,
		PurchaseRepo:    purchaseRepo,
		ProgressService: progressService,
		Redis:           rdb,
	}
}

// CatalogCourse is a published course with the requesting learner's state.
type CatalogCourse struct {
	model.Course
	ChaptersCount int      `json:"chaptersCount"`
	Progress      *float64 `json:"progress,omitempty"` // nil until purchased
}

func (s *CatalogService) cacheKey(categoryID string) string {
	if categoryID == "" {
		return catalogCacheKeyPrefix + "all"
	}
	return catalogCacheKeyPrefix + categoryID
}

func (s *CatalogService) loadPublished(ctx context.Context, title, categoryID string) ([]model.Course, error) {
	// Title search bypasses the cache; only the plain category listings are
	// hot enough to be worth it.
	if title != "" || s.Redis == nil {
		return s.CourseRepo.ListPublished(title, categoryID)
	}

	key := s.cacheKey(categoryID)
	if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
		var courses []model.Course
		if err := json.Unmarshal([]byte(cached), &courses); err == nil {
			return courses, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Log.Warn("catalog cache read failed", zap.Error(err))
	}

	courses, err := s.CourseRepo.ListPublished("", categoryID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(courses); err == nil {
		if err := s.Redis.Set(ctx, key, payload, catalogCacheTTL).Err(); err != nil {
			logger.Log.Warn("catalog cache write failed", zap.Error(err))
		}
	}

	return courses, nil
}

// InvalidateCache drops the cached listings; called when publish state
// changes.
func (s *CatalogService) InvalidateCache(ctx context.Context, categoryID string) {
	if s.Redis == nil {
		return
	}
	keys := []string{s.cacheKey(""), s.cacheKey(categoryID)}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// GetCourses lists published courses with the learner's completion
// percentage on courses they own.
func (s *CatalogService) GetCourses(ctx context.Context, learnerID uint, title, categoryID string) ([]CatalogCourse, error) {
	courses, err := s.loadPublished(ctx, title, categoryID)
	if err != nil {
		return nil, err
	}

	result := make([]CatalogCourse, 0, len(courses))
	for _, course := range courses {
		item := CatalogCourse{
			Course:        course,
			ChaptersCount: len(course.Chapters),
		}

		_, err := s.PurchaseRepo.FindByLearnerAndCourse(learnerID, course.ID)
		if err == nil {
			pct, err := s.ProgressService.CourseCompletion(learnerID, course.ID)
			if err != nil {
				return nil, err
			}
			item.Progress = &pct
		}

		// Strip the preloaded chapter bodies; list pages only need counts.
		item.Chapters = nil

		result = append(result, item)
	}

	return result, nil
}

// Dashboard splits the learner's purchased courses into completed and
// in-progress buckets.
type Dashboard struct {
	CompletedCourses  []CatalogCourse `json:"completedCourses"`
	CoursesInProgress []CatalogCourse `json:"coursesInProgress"`
}

func (s *CatalogService) GetDashboard(ctx context.Context, learnerID uint) (*Dashboard, error) {
	purchases, err := s.PurchaseRepo.ListByLearner(learnerID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		CompletedCourses:  []CatalogCourse{},
		CoursesInProgress: []CatalogCourse{},
	}

	for _, purchase := range purchases {
		if purchase.Course == nil || !purchase.Course.IsPublished {
			continue
		}

		pct, err := s.ProgressService.CourseCompletion(learnerID, purchase.CourseID)
		if err != nil {
			return nil, err
		}

		item := CatalogCourse{
			Course:   *purchase.Course,
			Progress: &pct,
		}
		if pct >= 100 {
			dashboard.CompletedCourses = append(dashboard.CompletedCourses, item)
		} else {
			dashboard.CoursesInProgress = append(dashboard.CoursesInProgress, item)
		}
	}

	return dashboard, nil
}

// GetCourseDetail returns a published course with its published chapters and
// the learner's purchase state for the course landing page.
func (s *CatalogService) GetCourseDetail(learnerID uint, courseID string) (*model.Course, bool, error) {
	course, err := s.CourseRepo.FindPublishedWithChapters(courseID)
	if err != nil {
		return nil, false, err
	}

	purchased := false
	if _, err := s.PurchaseRepo.FindByLearnerAndCourse(learnerID, courseID); err == nil {
		purchased = true
	}

	return course, purchased, nil
}
