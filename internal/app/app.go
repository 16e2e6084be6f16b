package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empower_backend/internal/config"
	"empower_backend/internal/controller"
	"empower_backend/internal/repository"
	"empower_backend/internal/service"
	"empower_backend/internal/util"
	"empower_backend/pkg/database"
	"empower_backend/pkg/logger"
	"empower_backend/pkg/monitoring"
	"empower_backend/pkg/security"
	"empower_backend/pkg/tracing"

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
	user        *repository.UserRepository
	dailyTask   *repository.DailyTaskRepository
	quiz        *repository.QuizRepository
	challenge   *repository.ChallengeRepository
	achievement *repository.AchievementRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	achievement *service.AchievementService
	task        *service.TaskService
	lesson      *service.LessonService
	quiz        *service.QuizService
	challenge   *service.ChallengeService
	leaderboard *service.LeaderboardService
	storage     service.Storage
	notifier    service.Notifier
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	task        *controller.TaskController
	quiz        *controller.QuizController
	challenge   *controller.ChallengeController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由配置文件监听器触发
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		dailyTask:   repository.NewDailyTaskRepository(db),
		quiz:        repository.NewQuizRepository(db),
		challenge:   repository.NewChallengeRepository(db),
		achievement: repository.NewAchievementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	// Redis 可用时走 Pub/Sub 广播进度事件，否则降级为日志
	if rdb != nil {
		s.notifier = service.NewRedisNotifier(rdb)
	} else {
		s.notifier = service.LogNotifier{}
	}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.achievement)
	s.achievement = service.NewAchievementService(repos.achievement)
	s.task = service.NewTaskService(db, repos.user, repos.dailyTask, repos.achievement, s.notifier)
	s.lesson = service.NewLessonService(db, repos.user, repos.achievement, s.notifier)
	s.quiz = service.NewQuizService(db, repos.user, repos.quiz, repos.achievement, s.notifier)
	s.challenge = service.NewChallengeService(repos.challenge)
	s.leaderboard = service.NewLeaderboardService(repos.user, repos.achievement, rdb)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user, s.achievement, s.storage),
		task:        controller.NewTaskController(s.task, s.lesson),
		quiz:        controller.NewQuizController(s.quiz),
		challenge:   controller.NewChallengeController(s.challenge),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
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

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 进度事件与排行榜缓存降级，核心流程不依赖 Redis
		logger.Log.Warn("Redis unavailable, events fall back to log notifier", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("empower-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器
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
