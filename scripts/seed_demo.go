// Seeds a demo instructor, learner and a published course with chapters.
//
// Intended for local development and first-time deployments. Running it twice
// is safe, existing rows are left alone.
//
// Usage: go run scripts/seed_demo.go

package main

import (
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	instructor := seedUser(db, "Demo Instructor", "instructor@example.com", model.Instructor)
	seedUser(db, "Demo Learner", "learner@example.com", model.Learner)

	var existing int64
	db.Model(&model.Course{}).Where("owner_id = ?", instructor.ID).Count(&existing)
	if existing > 0 {
		log.Println("demo course already present, nothing to do")
		return
	}

	price := 19.99
	course := &model.Course{
		OwnerID:     instructor.ID,
		Title:       "Go for Web Developers",
		Description: "Build and ship HTTP services in Go.",
		Price:       &price,
		IsPublished: true,
	}
	if err := db.Create(course).Error; err != nil {
		log.Fatalf("seeding course failed: %v", err)
	}

	chapters := []model.Chapter{
		{CourseID: course.ID, Title: "Getting started", Position: 1, IsFree: true, IsPublished: true},
		{CourseID: course.ID, Title: "Routing and handlers", Position: 2, IsPublished: true},
		{CourseID: course.ID, Title: "Talking to a database", Position: 3, IsPublished: true},
	}
	for i := range chapters {
		if err := db.Create(&chapters[i]).Error; err != nil {
			log.Fatalf("seeding chapter failed: %v", err)
		}
	}

	log.Println("demo data seeded")
}

func seedUser(db *gorm.DB, name, email string, role model.UserRole) *model.User {
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		return &user
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password failed: %v", err)
	}

	user = model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("seeding user failed: %v", err)
	}
	return &user
}
