package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/config"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/controller"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/notify"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/service"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/database"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/logger"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/monitoring"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/security"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/tracing"

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
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	school   *repository.SchoolRepository
	level    *repository.LevelRepository
	course   *repository.CourseRepository
	progress *repository.ProgressRepository
	habit    *repository.HabitRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	level     *service.LevelService
	school    *service.SchoolService
	course    *service.CourseService
	habit     *service.HabitService
	dashboard *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	school    *controller.SchoolController
	course    *controller.CourseController
	habit     *controller.HabitController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig copies a reloaded config over the live one, so every
// handler holding the original pointer sees the new values, then
// notifies subscribers. Connection settings (database, redis, port)
// still need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	*a.Config = *cfg
	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		school:   repository.NewSchoolRepository(db),
		level:    repository.NewLevelRepository(db),
		course:   repository.NewCourseRepository(db),
		progress: repository.NewProgressRepository(db),
		habit:    repository.NewHabitRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	announcer := notify.NewRedisAnnouncer(rdb, cfg.Notify.WebhookURL)

	s := &services{}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.level = service.NewLevelService(repos.level)
	s.user = service.NewUserService(repos.user, s.level)
	s.school = service.NewSchoolService(repos.school, repos.user)
	s.course = service.NewCourseService(repos.course, repos.progress, repos.user, s.school, rdb, announcer, db)
	s.habit = service.NewHabitService(repos.habit, repos.user, announcer, db)
	s.dashboard = service.NewDashboardService(repos.habit, repos.progress)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user),
		school:    controller.NewSchoolController(s.school, s.level),
		course:    controller.NewCourseController(s.course),
		habit:     controller.NewHabitController(s.habit),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db),
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

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("catalystbeacon", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
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
