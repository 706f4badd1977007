package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"anoa.com/blogapi/internal/config"
	"anoa.com/blogapi/internal/entity"
	"anoa.com/blogapi/internal/middleware"
	"anoa.com/blogapi/internal/scheduler"
	"anoa.com/blogapi/pkg/cache"
	"anoa.com/blogapi/pkg/metrics"
	"anoa.com/blogapi/pkg/schemadoc"
	"anoa.com/blogapi/pkg/storage"

	categoryHttp "anoa.com/blogapi/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/blogapi/internal/modules/category/repository"
	categoryService "anoa.com/blogapi/internal/modules/category/service"

	searchHttp "anoa.com/blogapi/internal/modules/search/delivery/http"
	searchService "anoa.com/blogapi/internal/modules/search/service"

	tagHttp "anoa.com/blogapi/internal/modules/tag/delivery/http"
	tagRepo "anoa.com/blogapi/internal/modules/tag/repository"
	tagService "anoa.com/blogapi/internal/modules/tag/service"

	uploadHttp "anoa.com/blogapi/internal/modules/upload/delivery/http"
	uploadRepo "anoa.com/blogapi/internal/modules/upload/repository"
	uploadService "anoa.com/blogapi/internal/modules/upload/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	jobSearchReindex   = "search-reindex"
	jobTagCacheRefresh = "tag-cache-refresh"
)

type Server struct {
	cfg         *config.Config
	log         *zap.Logger
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *scheduler.Scheduler
}

// handlers groups everything the router needs.
type handlers struct {
	category *categoryHttp.CategoryHandler
	search   *searchHttp.SearchHandler
	tag      *tagHttp.TagHandler
	upload   *uploadHttp.UploadHandler
	auth     *middleware.AuthMiddleware
	metrics  *metrics.Metrics
	health   gin.HandlerFunc
	schemas  *schemadoc.Registry
}

// Migrate creates or updates the tables owned by the API.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Category{},
		&entity.Tag{},
		&entity.StoredFile{},
	)
}

func NewServer(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *zap.Logger) (*Server, error) {
	fileStorage, err := storage.New(ctx, storage.Options{
		Driver: cfg.StorageDriver,
		Cloudinary: storage.CloudinaryConfig{
			URL:       cfg.CloudinaryURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		},
		S3: storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageDriver, err)
	}

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	engine := searchService.NewMeiliEngine(meiliClient, cfg.SearchIndex)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	tagRepository := tagRepo.NewTagRepository(db)
	fileRepository := uploadRepo.NewFileRepository(db)

	searchSvc := searchService.NewSearchService(engine, categoryRepository, tagRepository, log.Named("search"))
	categorySvc := categoryService.NewCategoryService(categoryRepository, searchSvc, log.Named("category"))
	tagSvc := tagService.NewTagService(tagRepository, cache.NewRedisCache(redisClient), cfg.TagCacheTTL, searchSvc, log.Named("tag"))
	uploadSvc := uploadService.NewUploadService(fileRepository, fileStorage, uploadService.Options{
		Driver:       cfg.StorageDriver,
		Folder:       cfg.UploadFolder,
		MaxBytes:     cfg.UploadMaxBytes,
		AllowedTypes: cfg.UploadAllowedTypes,
	}, log.Named("upload"))

	m := metrics.New()

	sched := scheduler.New(log, m)
	if err := sched.Register(scheduler.Job{
		Name:     jobSearchReindex,
		Schedule: cfg.ReindexSchedule,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			n, err := searchSvc.Reindex(ctx)
			if err != nil {
				return err
			}
			log.Info("search index rebuilt", zap.Int("documents", n))
			return nil
		},
	}); err != nil {
		return nil, err
	}
	if redisClient != nil {
		if err := sched.Register(scheduler.Job{
			Name:     jobTagCacheRefresh,
			Schedule: cfg.TagCacheSchedule,
			Timeout:  time.Minute,
			Run:      tagSvc.RefreshCache,
		}); err != nil {
			return nil, err
		}
	}

	h := handlers{
		category: categoryHttp.NewCategoryHandler(categorySvc),
		search:   searchHttp.NewSearchHandler(searchSvc),
		tag:      tagHttp.NewTagHandler(tagSvc),
		upload:   uploadHttp.NewUploadHandler(uploadSvc, cfg.UploadMaxBytes),
		auth:     middleware.NewAuthMiddleware(cfg.JWTSecret),
		metrics:  m,
		health:   healthCheck(db),
		schemas:  schemadoc.Default(),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		cfg:         cfg,
		log:         log,
		engine:      newRouter(cfg.AllowedOrigins, log, h),
		db:          db,
		redisClient: redisClient,
		scheduler:   sched,
	}, nil
}

func newRouter(origins []string, log *zap.Logger, h handlers) *gin.Engine {
	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(h.metrics))

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api")

	// Public routes (no auth required)
	api.GET("/schemas", listSchemas(h.schemas))
	api.GET("/schemas/:shape", getSchema(h.schemas))
	api.GET("/categories", h.category.GetAllCategories)
	api.GET("/categories/:id", h.category.GetCategory)
	api.GET("/tags", h.tag.ListTags)
	api.GET("/tags/:id", h.tag.GetTag)
	api.GET("/search", h.search.SearchByQuery)
	api.POST("/search", h.search.SearchByBody)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(h.auth.RequireAuth(), h.auth.RequireAdmin())
	{
		admin.POST("/categories", h.category.CreateCategory)
		admin.PUT("/categories/:id", h.category.UpdateCategory)
		admin.DELETE("/categories/:id", h.category.DeleteCategory)

		admin.POST("/tags", h.tag.CreateTag)
		admin.PUT("/tags/:id", h.tag.UpdateTag)

		admin.POST("/upload", h.upload.UploadFile)
		admin.DELETE("/upload/:filename", h.upload.DeleteFile)
	}

	return router
}

// Run serves HTTP and the scheduler until ctx is cancelled, then shuts
// both down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.scheduler.Start()
	go func() {
		// the index may be empty on a fresh deployment
		_ = s.scheduler.RunByName(ctx, jobSearchReindex)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("http server shutdown failed", zap.Error(err))
	}
	s.scheduler.Stop(shutdownCtx)

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if runErr != nil {
		return fmt.Errorf("http server failed: %w", runErr)
	}
	return nil
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
