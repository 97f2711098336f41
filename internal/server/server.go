// Package server wires configuration, storage, background workers and the
// HTTP/gRPC listeners into a runnable application.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/graph"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/gql"
	"github.com/shashiranjanraj/bazaar/pkg/grpcserver"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/mail"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
	"github.com/shashiranjanraj/bazaar/pkg/notification"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"github.com/shashiranjanraj/bazaar/pkg/schedule"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// Server is the assembled application.
type Server struct {
	db        *gorm.DB
	router    *router.Router
	http      *http.Server
	grpc      *grpcserver.Server
	queue     *queue.Manager
	scheduler *schedule.Scheduler
}

// New builds the full dependency graph.
func New() (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init()

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Connect(dialCtx); err != nil {
		logger.L().Warn("redis unavailable, catalog cache disabled", "error", err)
	}

	disk, err := storage.FromConfig(context.Background())
	if err != nil {
		return nil, err
	}

	// Queue driver. The redis driver needs the shared client; fall back
	// to memory when it is not connected.
	var driver queue.Driver
	if config.QueueDriver() == "redis" && cache.Enabled() {
		driver = queue.NewRedisDriver(cache.RDB)
	} else {
		driver = queue.NewMemoryDriver(256)
	}
	queueMgr := queue.NewManager(driver, queue.NewDBFailedStore(db))

	// Repositories and services.
	userRepo := repositories.NewUserRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	events := event.NewBus()
	authSvc := services.NewAuthService(userRepo, queueMgr)
	catalogSvc := services.NewCatalogService(catalogRepo)
	productSvc := services.NewProductService(productRepo, catalogRepo, userRepo)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, events)

	registerJobs(queueMgr)
	registerListeners(events, queueMgr)

	scheduler := schedule.New()
	scheduler.Every(time.Hour, "purge_expired_otps", authSvc.PurgeExpiredOTPs)

	// HTTP surface.
	r := router.New()
	r.Use(metrics.Middleware, middleware.Recover, reqid.Middleware,
		middleware.Logger, middleware.CORS)

	r.HandleFunc("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	schema, err := graph.NewSchema(catalogSvc, productSvc)
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	r.Post("/api/graphql", "graphql", gql.Handler(schema))

	routes.Register(r, routes.Controllers{
		Auth:    controllers.NewAuthController(authSvc),
		Catalog: controllers.NewCatalogController(catalogSvc),
		Product: controllers.NewProductController(productSvc),
		Cart:    controllers.NewCartController(cartSvc),
		Order:   controllers.NewOrderController(orderSvc),
		Admin:   controllers.NewAdminController(authSvc, catalogSvc, productSvc, orderSvc, disk),
	})

	// Serve local uploads when the local disk is in use.
	if local, ok := disk.(*storage.LocalDisk); ok {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Root())))
		r.HandleFunc("/uploads/*", fs.ServeHTTP)
	}

	return &Server{
		db:     db,
		router: r,
		http: &http.Server{
			Addr:              ":" + config.AppPort(),
			Handler:           r.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc:      grpcserver.New(config.GRPCPort()),
		queue:     queueMgr,
		scheduler: scheduler,
	}, nil
}

// registerJobs binds queue job names to their handlers.
func registerJobs(q *queue.Manager) {
	q.Register(services.JobSendOTPMail, func(ctx context.Context, payload json.RawMessage) error {
		var p services.OTPMailPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return mail.New().
			To(p.Email).
			Subject("Your verification code").
			HTML(otpMailBody(p.Code)).
			Send()
	})
}

// otpMailBody renders the verification email.
func otpMailBody(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2 style="color: #2563eb; text-align: center;">Email Verification</h2>
  <p style="font-size: 16px; color: #333; text-align: center;">Your verification code is:</p>
  <div style="background: #f3f4f6; padding: 15px; margin: 20px 0; border-radius: 5px; text-align: center;">
    <strong style="font-size: 24px; letter-spacing: 3px; color: #2563eb;">%s</strong>
  </div>
  <p style="font-size: 14px; color: #666; text-align: center;">
    This code will expire in %d minutes.<br>
    If you didn't request this code, please ignore this email.
  </p>
</div>`, code, int(config.OTPTTL().Minutes()))
}

// registerListeners wires domain events to their side effects. The
// order.created notification runs through the queue so checkout latency is
// unaffected.
func registerListeners(events *event.Bus, q *queue.Manager) {
	notifier := buildNotifier()
	if notifier == nil {
		return
	}

	const jobNotifyOrder = "notify.order_created"
	q.Register(jobNotifyOrder, func(ctx context.Context, payload json.RawMessage) error {
		var order models.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return err
		}
		notifier.Notify(ctx, notification.Notification{
			Title: fmt.Sprintf("New order #%d", order.ID),
			Body:  fmt.Sprintf("Order #%d placed for %.2f (%d items).", order.ID, order.Total, len(order.Items)),
			Meta: map[string]interface{}{
				"order_id": order.ID,
				"user_id":  order.UserID,
				"total":    order.Total,
			},
		})
		return nil
	})

	events.On(services.EventOrderCreated, func(ctx context.Context, payload interface{}) {
		if err := q.Dispatch(ctx, jobNotifyOrder, payload); err != nil {
			logger.WithCtx(ctx).Error("order notification not queued", "error", err)
		}
	})
}

func buildNotifier() *notification.Notifier {
	var channels []notification.Channel
	if to := config.AdminNotifyEmail(); to != "" {
		channels = append(channels, &notification.MailChannel{To: to})
	}
	if url := config.AdminWebhookURL(); url != "" {
		channels = append(channels, notification.NewWebhookChannel(url))
	}
	if len(channels) == 0 {
		return nil
	}
	return notification.New(channels...)
}

// DB exposes the database handle for CLI commands.
func (s *Server) DB() *gorm.DB { return s.db }

// Routes lists the registered HTTP routes.
func (s *Server) Routes() []router.RouteInfo { return s.router.Routes() }

// Migrate applies pending migrations.
func (s *Server) Migrate() error { return migration.Run(s.db) }

// Run starts all listeners and background workers, blocking until ctx is
// cancelled, then shuts everything down in order.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Migrate(); err != nil {
		return err
	}

	s.queue.StartWorkers(config.QueueWorkers())
	s.scheduler.Start()

	errCh := make(chan error, 2)
	go func() {
		logger.L().Info("grpc listening", "port", config.GRPCPort())
		if err := s.grpc.Serve(); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.L().Info("http listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.shutdown()
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		s.shutdown()
		return nil
	}
}

// RunWorker consumes queue jobs and runs scheduled tasks without binding
// the HTTP or gRPC listeners. Used by the queue:work command.
func (s *Server) RunWorker(ctx context.Context) error {
	if err := s.Migrate(); err != nil {
		return err
	}

	s.queue.StartWorkers(config.QueueWorkers())
	s.scheduler.Start()
	logger.L().Info("queue worker running", "workers", config.QueueWorkers(), "driver", config.QueueDriver())

	<-ctx.Done()
	logger.L().Info("worker shutting down")
	s.scheduler.Stop()
	s.queue.Shutdown()
	_ = cache.Close()
	return nil
}

func (s *Server) shutdown() {
	s.grpc.SetNotServing()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("http shutdown failed", "error", err)
	}

	s.grpc.Stop()
	s.scheduler.Stop()
	s.queue.Shutdown()
	_ = cache.Close()
}
