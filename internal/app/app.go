package app

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	category   *repository.CategoryRepository
	course     *repository.CourseRepository
	chapter    *repository.ChapterRepository
	purchase   *repository.PurchaseRepository
	progress   *repository.ProgressRepository
	videoAsset *repository.VideoAssetRepository
	attachment *repository.AttachmentRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	course      *service.CourseService
	catalog     *service.CatalogService
	entitlement *service.EntitlementService
	progress    *service.ProgressService
	purchase    *service.PurchaseService
	analytics   *service.AnalyticsService
}

type controllers struct {
	auth      *controller.AuthController
	catalog   *controller.CatalogController
	player    *controller.PlayerController
	purchase  *controller.PurchaseController
	analytics *controller.AnalyticsController
	course    *controller.CourseController
	chapter   *controller.ChapterController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		category:   repository.NewCategoryRepository(db),
		course:     repository.NewCourseRepository(db),
		chapter:    repository.NewChapterRepository(db),
		purchase:   repository.NewPurchaseRepository(db),
		progress:   repository.NewProgressRepository(db),
		videoAsset: repository.NewVideoAssetRepository(db),
		attachment: repository.NewAttachmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.chapter, repos.videoAsset, repos.attachment, repos.category)
	s.progress = service.NewProgressService(repos.progress, repos.chapter)
	s.catalog = service.NewCatalogService(repos.course, repos.purchase, s.progress, rdb)
	s.entitlement = service.NewEntitlementService(
		repos.course,
		repos.chapter,
		repos.purchase,
		repos.progress,
		repos.videoAsset,
		repos.attachment,
	)
	s.purchase = service.NewPurchaseService(repos.purchase, repos.course)
	s.analytics = service.NewAnalyticsService(repos.purchase)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		catalog:   controller.NewCatalogController(s.catalog, repos.category),
		player:    controller.NewPlayerController(s.entitlement, s.progress),
		purchase:  controller.NewPurchaseController(s.purchase),
		analytics: controller.NewAnalyticsController(s.analytics),
		course:    controller.NewCourseController(s.course, s.catalog, s.storage),
		chapter:   controller.NewChapterController(s.course, s.catalog, s.storage),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	// Debug mode migrates on every start; release deployments opt in
	// with the migrate flags.
	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Migration completed, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The catalog degrades to direct reads without a cache.
		logger.Log.Warn("Redis unavailable, catalog caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

// watchConfig hot-reloads the config file. Services hold the same *Config,
// so the reload copies over it in place and then notifies subscribers.
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		updated, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		updated.ForceMigrate = a.Config.ForceMigrate
		updated.MigrateOnly = a.Config.MigrateOnly
		*a.Config = *updated
		for _, callback := range a.configCallbacks {
			callback(a.Config)
		}
		logger.Log.Info("configuration reloaded")
	})
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
