// Package app assembles the engine: database, repositories, services,
// scheduler runtime and HTTP surfaces, with a graceful shutdown path.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/mailfleet/mailfleet/config"
	"github.com/mailfleet/mailfleet/internal/domain"
	httpHandler "github.com/mailfleet/mailfleet/internal/http"
	"github.com/mailfleet/mailfleet/internal/repository"
	"github.com/mailfleet/mailfleet/internal/service"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mux    *http.ServeMux
	server *http.Server

	// Repositories
	taskRepo         domain.TaskRepository
	subTaskRepo      domain.SubTaskRepository
	contactRepo      domain.ContactRepository
	templateRepo     domain.TemplateRepository
	providerRepo     domain.ProviderRepository
	quotaRepo        domain.QuotaRepository
	webhookEventRepo domain.WebhookEventRepository
	conversationRepo domain.ConversationRepository

	// Scheduler runtime
	scheduler *scheduler.Scheduler
	pollers   *scheduler.PollerManager
	runtime   *scheduler.Runtime

	// Services
	taskService     *service.TaskService
	dispatchService *service.DispatchService
	trackingService *service.TrackingService
	webhookService  *service.WebhookService

	generationDone chan struct{}
	generationStop context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
		logger: logger.NewLogger(cfg.LogLevel),
		mux:    http.NewServeMux(),
	}
}

// Initialize prepares every component without starting any loops.
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	a.InitRepositories()
	a.InitServices()
	a.InitHandlers()
	return nil
}

// InitDB opens and pings the PostgreSQL connection pool.
func (a *App) InitDB() error {
	db, err := sql.Open("postgres", a.config.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	return nil
}

// InitRepositories constructs the PostgreSQL repositories.
func (a *App) InitRepositories() {
	a.taskRepo = repository.NewTaskRepository(a.db)
	a.subTaskRepo = repository.NewSubTaskRepository(a.db)
	a.contactRepo = repository.NewContactRepository(a.db)
	a.templateRepo = repository.NewTemplateRepository(a.db)
	a.providerRepo = repository.NewProviderRepository(a.db)
	a.quotaRepo = repository.NewQuotaRepository(a.db)
	a.webhookEventRepo = repository.NewWebhookEventRepository(a.db)
	a.conversationRepo = repository.NewConversationRepository(a.db)
}

// InitServices constructs the services and the scheduler runtime.
func (a *App) InitServices() {
	a.scheduler = scheduler.NewScheduler(a.logger)

	renderer := service.NewMessageRenderer(a.config.TrackingEndpoint)
	a.dispatchService = service.NewDispatchService(
		a.taskRepo, a.subTaskRepo, a.contactRepo, a.templateRepo,
		a.providerRepo, a.scheduler, renderer, nil, a.logger)

	a.pollers = scheduler.NewPollerManager(a.providerRepo, a.scheduler, a.dispatchService, a.logger)
	a.runtime = scheduler.NewRuntime(a.scheduler, a.pollers)

	a.taskService = service.NewTaskService(
		a.taskRepo, a.subTaskRepo, a.contactRepo, a.templateRepo,
		a.providerRepo, a.quotaRepo, a.scheduler, a.logger)

	a.trackingService = service.NewTrackingService(a.subTaskRepo, a.taskRepo, a.logger)

	a.webhookService = service.NewWebhookService(
		a.subTaskRepo, a.taskRepo, a.contactRepo, a.providerRepo,
		a.conversationRepo, a.webhookEventRepo, a.logger)
}

// InitHandlers registers every HTTP surface on the mux.
func (a *App) InitHandlers() {
	httpHandler.NewTaskHandler(a.taskService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewTrackingHandler(a.trackingService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewWebhookHandler(a.webhookService, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewSchedulerHandler(a.runtime, a.logger).RegisterRoutes(a.mux)

	a.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}

// Start launches the scheduler runtime, the due-task sweep and the HTTP
// server. It blocks until the server stops.
func (a *App) Start() error {
	if a.config.Scheduler.AutoStart {
		if err := a.runtime.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start scheduler runtime: %w", err)
		}
		// Queues live in memory only, rebuild them from storage before
		// any new generation runs.
		if err := a.taskService.Recover(context.Background()); err != nil {
			a.logger.Error("Startup recovery failed: " + err.Error())
		}
	}
	a.startGenerationLoop()

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	a.logger.WithField("addr", addr).Info("Server starting")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startGenerationLoop sweeps due tasks on a fixed interval.
func (a *App) startGenerationLoop() {
	interval := time.Duration(a.config.Scheduler.GenerationIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.generationStop = cancel
	a.generationDone = make(chan struct{})

	go func() {
		defer close(a.generationDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.taskService.ProcessDueTasks(ctx, a.config.Scheduler.GenerationBatchSize); err != nil {
					a.logger.Error("Due task sweep failed: " + err.Error())
				}
			}
		}
	}()
}

// Shutdown stops the loops and the HTTP server in order: no new work is
// scheduled, in-flight dispatches drain, then the listener closes.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down")

	if a.generationStop != nil {
		a.generationStop()
		<-a.generationDone
	}
	if a.runtime.IsRunning() {
		a.runtime.Stop()
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// GetConfig returns the app configuration
func (a *App) GetConfig() *config.Config { return a.config }

// GetLogger returns the app logger
func (a *App) GetLogger() logger.Logger { return a.logger }

// GetMux returns the HTTP mux, used to drive requests in tests
func (a *App) GetMux() *http.ServeMux { return a.mux }

// GetDB returns the database handle
func (a *App) GetDB() *sql.DB { return a.db }
