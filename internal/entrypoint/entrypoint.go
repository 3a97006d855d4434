package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yu1chiro/elib-smantiara/internal/audit"
	"github.com/Yu1chiro/elib-smantiara/internal/auth"
	"github.com/Yu1chiro/elib-smantiara/internal/config"
	"github.com/Yu1chiro/elib-smantiara/internal/database"
	audit_repo "github.com/Yu1chiro/elib-smantiara/internal/database/audit"
	"github.com/Yu1chiro/elib-smantiara/internal/database/books"
	http_controllers "github.com/Yu1chiro/elib-smantiara/internal/http"
	"github.com/Yu1chiro/elib-smantiara/internal/scheduler"
	"github.com/Yu1chiro/elib-smantiara/internal/storage"
	"github.com/Yu1chiro/elib-smantiara/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut the server down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting e-book catalog v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Object storage is optional: without an endpoint the catalog still works
	// but orphaned PDF objects are never removed.
	var objectStore *storage.MinioStore
	var cleaner *storage.Cleaner
	if cfg.Storage.Endpoint != "" {
		objectStore, err = storage.NewMinioStore(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		cleaner = storage.NewCleaner(objectStore, cfg.Storage.Bucket)
		log.Printf("Object storage cleanup enabled for bucket %q at %s", cfg.Storage.Bucket, cfg.Storage.Endpoint)
	} else {
		log.Printf("WARNING: STORAGE_ENDPOINT is not set. Orphaned PDF objects will not be cleaned up.")
	}

	var bookCleaner books.ObjectCleaner
	if cleaner != nil {
		bookCleaner = cleaner
	}
	bookRepo := books.NewRepository(db.DB, bookCleaner)

	auditRepo := audit_repo.NewRepository(db.DB)
	auditService := audit.NewService(auditRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sweepScheduler *scheduler.SweepScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditRepo))
		if objectStore != nil {
			taskClient.Register(tasks.NewSweepOrphanObjectsQueue(objectStore, bookRepo, cfg.Storage.Bucket))
		}

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Prune old audit events once per process start
		if _, err := taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			log.Printf("Failed to enqueue audit cleanup: %v", err)
		}

		// Periodic orphan sweep, only meaningful with object storage configured
		if cfg.Sweeper.Enabled && objectStore != nil {
			sweepScheduler = scheduler.NewSweepScheduler(taskClient, cfg.Sweeper)
			if err := sweepScheduler.Start(context.Background()); err != nil {
				log.Fatalf("Failed to start orphan sweep scheduler: %v", err)
			}
		}
	}

	// Initialize authentication. The server refuses to start without an admin
	// credential: every mutating endpoint sits behind login.
	authService, err := auth.NewService(cfg.Admin)
	if err != nil {
		log.Fatalf("Failed to initialize authentication: %v (set ADMIN_USERNAME and ADMIN_PASSWORD)", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookStore:      bookRepo,
		Database:       db,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuditService:   auditService,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if sweepScheduler != nil {
			sweepScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
