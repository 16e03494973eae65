package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "univoice/docs" // This is for Swagger
	"univoice/internal/auth"
	"univoice/internal/config"
	"univoice/internal/database"
	"univoice/internal/email"
	"univoice/internal/handlers"
	"univoice/internal/logger"
	"univoice/internal/middleware"
	"univoice/internal/models"
	"univoice/internal/repository"
	"univoice/internal/scheduler"
	"univoice/internal/vault"
	"univoice/internal/workflow"
)

// @title UniVoice API
// @version 1.0
// @description Backend API for the UniVoice university complaint-tracking portal

// @contact.name API Support
// @contact.email support@univoice.edu

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level})

	// Overlay secrets from Vault when configured
	if err := vault.ApplySecrets(cfg); err != nil {
		log.Fatalf("Failed to load secrets from vault: %v", err)
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	complaintRepo := repository.NewComplaintRepository(db.DB)
	committeeRepo := repository.NewCommitteeRepository(db.DB)
	decisionRepo := repository.NewDecisionRepository(db.DB)
	escalationRepo := repository.NewEscalationRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	meetingRepo := repository.NewMeetingRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	emailService := email.NewService(&cfg.Email)
	notifier := workflow.NewNotifier(notificationRepo, userRepo, emailService)
	reportSvc := workflow.NewReportService(reportRepo, userRepo)
	workflowSvc := workflow.NewService(db.DB, complaintRepo, decisionRepo, escalationRepo,
		userRepo, meetingRepo, auditRepo, notifier, reportSvc, &cfg.Workflow)
	committeeSvc := workflow.NewCommitteeService(db.DB, complaintRepo, committeeRepo,
		userRepo, notifier, &cfg.Workflow)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	complaintHandler := handlers.NewComplaintHandler(complaintRepo, meetingRepo, workflowSvc)
	committeeHandler := handlers.NewCommitteeHandler(committeeSvc, committeeRepo, complaintRepo, userRepo)
	decisionHandler := handlers.NewDecisionHandler(decisionRepo, workflowSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	reportHandler := handlers.NewReportHandler(reportRepo)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Setup router
	mux := http.NewServeMux()

	// Complaint routes
	mux.Handle("/api/v1/complaints/create", authMw.Authenticate(http.HandlerFunc(complaintHandler.Create)))
	mux.Handle("/api/v1/complaints/get", authMw.Authenticate(http.HandlerFunc(complaintHandler.Get)))
	mux.Handle("/api/v1/complaints/mine", authMw.Authenticate(http.HandlerFunc(complaintHandler.ListMine)))
	mux.Handle("/api/v1/complaints/assigned", authMw.Authenticate(http.HandlerFunc(complaintHandler.ListAssigned)))
	mux.Handle("/api/v1/complaints/categorize", authMw.Authenticate(http.HandlerFunc(complaintHandler.Categorize)))
	mux.Handle("/api/v1/complaints/validate", authMw.Authenticate(http.HandlerFunc(complaintHandler.Validate)))
	mux.Handle("/api/v1/complaints/reject", authMw.Authenticate(http.HandlerFunc(complaintHandler.Reject)))
	mux.Handle("/api/v1/complaints/resolve", authMw.Authenticate(http.HandlerFunc(complaintHandler.Resolve)))
	mux.Handle("/api/v1/complaints/assign-resolver", authMw.Authenticate(http.HandlerFunc(complaintHandler.AssignResolver)))
	mux.Handle("/api/v1/complaints/meeting", authMw.Authenticate(http.HandlerFunc(complaintHandler.GetMeeting)))

	// Committee routes
	mux.Handle("/api/v1/committees/form", authMw.Authenticate(http.HandlerFunc(committeeHandler.Form)))
	mux.Handle("/api/v1/committees/get", authMw.Authenticate(http.HandlerFunc(committeeHandler.Get)))
	mux.Handle("/api/v1/committees/candidates", authMw.Authenticate(http.HandlerFunc(committeeHandler.Candidates)))

	// Decision routes
	mux.Handle("/api/v1/decisions/inbox", authMw.Authenticate(http.HandlerFunc(decisionHandler.Inbox)))
	mux.Handle("/api/v1/decisions/reply", authMw.Authenticate(http.HandlerFunc(decisionHandler.Reply)))

	// Notification routes
	mux.Handle("/api/v1/notifications/list", authMw.Authenticate(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("/api/v1/notifications/mark-read", authMw.Authenticate(http.HandlerFunc(notificationHandler.MarkRead)))

	// President oversight routes
	mux.Handle("/api/v1/reports/list",
		authMw.Authenticate(
			middleware.RequireRole(models.RolePresident)(
				http.HandlerFunc(reportHandler.List),
			),
		),
	)
	mux.Handle("/api/v1/reports/by-complaint",
		authMw.Authenticate(
			middleware.RequireRole(models.RolePresident)(
				http.HandlerFunc(reportHandler.ListForComplaint),
			),
		),
	)

	// Admin routes
	mux.Handle("/api/v1/admin/audit-logs/list",
		authMw.Authenticate(
			middleware.RequireRole("admin")(
				http.HandlerFunc(auditHandler.List),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Start the meeting reminder scheduler
	sched := scheduler.NewScheduler(meetingRepo, notifier, &cfg.Scheduler)
	sched.Start()
	defer sched.Stop()

	// Apply global middleware
	handler := middleware.SecurityHeaders(
		corsMw.Handler(
			rateLimiter.Limit(
				middleware.LoggingMiddleware(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := getContext(30 * time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
