package service

import (
	"errors"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-auth-service-tests"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter22",
		Role:     model.Learner,
	}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var stored model.User
	if err := db.First(&stored, "email = ?", "ada@example.com").Error; err != nil {
		t.Fatalf("loading user: %v", err)
	}
	if stored.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	first := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hunter22"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup := &model.User{Name: "Imposter", Email: "ada@example.com", Password: "other"}
	if err := svc.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("got %v, want ErrEmailRegistered", err)
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hunter22", Role: model.Instructor}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.Login("ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Role != model.Instructor {
		t.Errorf("claims.Role = %q, want instructor", claims.Role)
	}

	if _, err := svc.Login("ada@example.com", "wrong"); err == nil {
		t.Error("wrong password must not log in")
	}
	if _, err := svc.Login("nobody@example.com", "hunter22"); err == nil {
		t.Error("unknown email must not log in")
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hunter22"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var before model.User
	if err := db.First(&before, user.ID).Error; err != nil {
		t.Fatalf("loading user: %v", err)
	}
	if !before.LastLogin.IsZero() {
		t.Errorf("LastLogin set before any login: %v", before.LastLogin)
	}

	if _, err := svc.Login("ada@example.com", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	var after model.User
	if err := db.First(&after, user.ID).Error; err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if after.LastLogin.IsZero() {
		t.Error("LastLogin not recorded on login")
	}
}

func TestGetCurrentUserRejectsDeletedUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hunter22"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set("user", &util.Claims{UserID: user.ID, Role: model.Learner, Email: user.Email})

	if got := svc.GetCurrentUser(ctx); got == nil || got.ID != user.ID {
		t.Fatalf("GetCurrentUser for a live user = %+v", got)
	}

	if err := db.Delete(&model.User{}, user.ID).Error; err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	// A still-valid token for a removed account must not produce a
	// zero-value profile.
	if got := svc.GetCurrentUser(ctx); got != nil {
		t.Errorf("GetCurrentUser for a deleted user = %+v, want nil", got)
	}
}
