package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"testing"
)

func TestGetAnalyticsGroupsByCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewPurchaseRepository(db))

	courseA := createCourse(t, db, 7, "Course A", floatPtr(10), true)
	courseB := createCourse(t, db, 7, "Course B", floatPtr(20), true)

	createPurchase(t, db, 100, courseA.ID)
	createPurchase(t, db, 101, courseA.ID)
	createPurchase(t, db, 102, courseB.ID)

	// Another instructor's sales must stay invisible.
	other := createCourse(t, db, 8, "Other", floatPtr(99), true)
	createPurchase(t, db, 100, other.ID)

	analytics := svc.GetAnalytics(7)

	if analytics.TotalSales != 3 {
		t.Errorf("TotalSales = %d, want 3", analytics.TotalSales)
	}
	if analytics.TotalRevenue != 40 {
		t.Errorf("TotalRevenue = %v, want 40", analytics.TotalRevenue)
	}
	if len(analytics.Data) != 2 {
		t.Fatalf("got %d revenue rows, want 2", len(analytics.Data))
	}

	byName := map[string]float64{}
	for _, row := range analytics.Data {
		byName[row.Name] = row.Total
	}
	if byName["Course A"] != 20 {
		t.Errorf("Course A total = %v, want 20", byName["Course A"])
	}
	if byName["Course B"] != 20 {
		t.Errorf("Course B total = %v, want 20", byName["Course B"])
	}
}

func TestGetAnalyticsSameTitleStaysSeparate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewPurchaseRepository(db))

	first := createCourse(t, db, 7, "Bootcamp", floatPtr(10), true)
	second := createCourse(t, db, 7, "Bootcamp", floatPtr(30), true)
	createPurchase(t, db, 100, first.ID)
	createPurchase(t, db, 101, second.ID)

	analytics := svc.GetAnalytics(7)

	if len(analytics.Data) != 2 {
		t.Fatalf("courses sharing a title must stay separate rows, got %d", len(analytics.Data))
	}
	if analytics.TotalRevenue != 40 {
		t.Errorf("TotalRevenue = %v, want 40", analytics.TotalRevenue)
	}
}

func TestGetAnalyticsNullPriceCountsAsZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewPurchaseRepository(db))

	free := createCourse(t, db, 7, "Unpriced", nil, true)
	paid := createCourse(t, db, 7, "Paid", floatPtr(15), true)
	createPurchase(t, db, 100, free.ID)
	createPurchase(t, db, 100, paid.ID)

	analytics := svc.GetAnalytics(7)

	if analytics.TotalRevenue != 15 {
		t.Errorf("TotalRevenue = %v, want 15", analytics.TotalRevenue)
	}
	// The unpriced sale still counts as a sale.
	if analytics.TotalSales != 2 {
		t.Errorf("TotalSales = %d, want 2", analytics.TotalSales)
	}
}

func TestGetAnalyticsEmptyForNewInstructor(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewPurchaseRepository(db))

	analytics := svc.GetAnalytics(7)

	if analytics == nil {
		t.Fatal("analytics must never be nil")
	}
	if analytics.Data == nil || len(analytics.Data) != 0 {
		t.Errorf("Data must be an empty slice, got %#v", analytics.Data)
	}
	if analytics.TotalRevenue != 0 || analytics.TotalSales != 0 {
		t.Errorf("totals must be zero, got revenue=%v sales=%d", analytics.TotalRevenue, analytics.TotalSales)
	}
}

func TestGetAnalyticsDegradesToZeroOnStoreFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewPurchaseRepository(db))

	course := createCourse(t, db, 7, "Course A", floatPtr(10), true)
	createPurchase(t, db, 100, course.ID)

	if err := db.Migrator().DropTable(&model.Purchase{}); err != nil {
		t.Fatalf("dropping purchases table: %v", err)
	}

	analytics := svc.GetAnalytics(7)

	if analytics == nil {
		t.Fatal("a failed aggregation must still yield a result")
	}
	if len(analytics.Data) != 0 || analytics.TotalRevenue != 0 || analytics.TotalSales != 0 {
		t.Errorf("failed aggregation must degrade to the zero result, got %#v", analytics)
	}
}
