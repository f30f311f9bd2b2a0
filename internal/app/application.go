package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courseforge/internal/background"
	"courseforge/internal/client"
	"courseforge/internal/client/backend"
	"courseforge/internal/client/storage"
	"courseforge/internal/client/videohost"
	"courseforge/internal/config"
	"courseforge/internal/handlers"
	"courseforge/internal/middleware"
	"courseforge/internal/service"
	"courseforge/internal/store"
	"courseforge/pkg/cache"
	"courseforge/pkg/logger"
)

type Application struct {
	cfg *config.Config

	cache   *cache.Cache
	session *client.Session
	store   *store.CourseStore

	services  serviceContainer
	handlers  handlerContainer
	scheduler *background.Scheduler

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Auth     *service.AuthService
	Lesson   *service.LessonService
	Section  *service.SectionService
	Reorder  *service.ReorderService
	Course   *service.CourseService
	Category *service.CategoryService
	Quiz     *service.QuizService
}

type handlerContainer struct {
	Auth     *handlers.AuthHandler
	Lesson   *handlers.LessonHandler
	Section  *handlers.SectionHandler
	Course   *handlers.CourseHandler
	Category *handlers.CategoryHandler
	Quiz     *handlers.QuizHandler
	Video    *handlers.VideoHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.session = client.NewSession()
	app.store = store.NewCourseStore(app.cache)

	api := client.New(cfg.BackendBaseURL, cfg.BackendTimeout, app.session)
	backendClient := backend.New(api)
	storageClient := storage.New(api)
	hostClient := videohost.New(api, cfg.VideoUploadTimeout)

	app.initServices(backendClient, storageClient, hostClient)
	app.initHandlers(hostClient)
	app.initRouter()
	app.initRefresher(backendClient)

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.VideoUploadTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"backend":     a.cfg.BackendBaseURL,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Scheduler shutdown timed out", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initCache() error {
	enable := a.cfg.EnableCache && a.cfg.EnableRedis

	c, err := cache.NewCache(a.cfg.RedisURL, enable)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.cache = c
	return nil
}

func (a *Application) initServices(backendClient *backend.Client, storageClient *storage.Client, hostClient *videohost.Client) {
	a.services = serviceContainer{
		Auth:     service.NewAuthService(backendClient, a.session, a.store),
		Lesson:   service.NewLessonService(hostClient, storageClient, backendClient, a.store, a.cfg.MaxVideoSize, a.cfg.MaxResourceSize),
		Section:  service.NewSectionService(backendClient, a.store),
		Reorder:  service.NewReorderService(backendClient, a.store),
		Course:   service.NewCourseService(backendClient, a.store, a.cache, a.cfg.MaxImageSize),
		Category: service.NewCategoryService(backendClient),
		Quiz:     service.NewQuizService(backendClient),
	}
}

func (a *Application) initHandlers(hostClient *videohost.Client) {
	a.handlers = handlerContainer{
		Auth:     handlers.NewAuthHandler(a.services.Auth, a.cfg.JWTSecret),
		Lesson:   handlers.NewLessonHandler(a.services.Lesson),
		Section:  handlers.NewSectionHandler(a.services.Section, a.services.Reorder),
		Course:   handlers.NewCourseHandler(a.services.Course),
		Category: handlers.NewCategoryHandler(a.services.Category),
		Quiz:     handlers.NewQuizHandler(a.services.Quiz),
		Video:    handlers.NewVideoHandler(hostClient),
	}
}

func (a *Application) initRefresher(backendClient *backend.Client) {
	if !a.cfg.EnableRefresh {
		return
	}

	a.scheduler = background.NewScheduler(background.Config{WorkerCount: 1, QueueSize: 4})
	refresher := background.NewRefresher(backendClient, a.store, a.cfg.RefreshInterval)

	a.scheduler.Start(context.Background())
	if err := refresher.Register(a.scheduler); err != nil {
		logger.Error(err, "Failed to register snapshot refresher", nil)
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.POST("/auth/login", a.handlers.Auth.Login)
			public.POST("/auth/register", a.handlers.Auth.Register)
			public.POST("/auth/verify-email", a.handlers.Auth.VerifyEmail)
			public.POST("/auth/forgot-password", a.handlers.Auth.ForgotPassword)
			public.POST("/auth/reset-password", a.handlers.Auth.ResetPassword)

			public.GET("/courses", a.handlers.Course.ListPublished)
			public.GET("/categories", a.handlers.Category.ListPublic)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/profile", a.handlers.Auth.Profile)
			admin.POST("/auth/logout", a.handlers.Auth.Logout)

			admin.GET("/courses", a.handlers.Course.ListAdmin)
			admin.POST("/courses", a.handlers.Course.Create)
			admin.PUT("/courses/:id", a.handlers.Course.Update)
			admin.POST("/courses/:id/status", a.handlers.Course.SetStatus)
			admin.DELETE("/courses/:id", a.handlers.Course.Archive)
			admin.POST("/courses/thumbnail", a.handlers.Course.UploadThumbnail)

			admin.POST("/sections", a.handlers.Section.Create)
			admin.PUT("/sections/:id", a.handlers.Section.Update)
			admin.DELETE("/sections/:id", a.handlers.Section.Delete)
			admin.POST("/courses/:id/sections/reorder", a.handlers.Section.Reorder)
			admin.POST("/sections/:id/lessons/reorder", a.handlers.Section.ReorderLessons)
			admin.POST("/reorder/drag", a.handlers.Section.Drag)

			admin.POST("/lessons", a.handlers.Lesson.Create)
			admin.PUT("/lessons/:id", a.handlers.Lesson.Update)
			admin.DELETE("/lessons/:id", a.handlers.Lesson.Delete)
			admin.DELETE("/lessons/resource/:id", a.handlers.Lesson.DeleteResource)

			admin.GET("/categories", a.handlers.Category.ListAdmin)
			admin.POST("/categories", a.handlers.Category.Create)
			admin.PUT("/categories/:id", a.handlers.Category.Update)
			admin.DELETE("/categories/:id", a.handlers.Category.Delete)

			admin.GET("/quizzes/section/:sectionId", a.handlers.Quiz.GetBySection)
			admin.POST("/quizzes", a.handlers.Quiz.Upsert)
			admin.DELETE("/quizzes/:id", a.handlers.Quiz.Delete)

			admin.GET("/videos/config", a.handlers.Video.Config)
			admin.GET("/videos/:videoId/embed", a.handlers.Video.Embed)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "path": c.Request.URL.Path})
	})

	a.router = router
}
