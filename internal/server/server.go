// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"descubre/internal/cache"
	"descubre/internal/config"
	"descubre/internal/database"
	"descubre/internal/featureflags"
	"descubre/internal/middleware"
	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/ratelimit"
	"descubre/internal/repository"
	"descubre/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo   repository.UserRepository
	placeRepo  repository.PlaceRepository
	reviewRepo repository.ReviewRepository
	reportRepo repository.ReportRepository
	auditRepo  repository.AuditRepository
	accounts   moderation.AccountStore
	appeals    moderation.AppealStore

	pipeline     *moderation.Pipeline
	resolver     *moderation.AppealResolver
	limiter      *ratelimit.Limiter
	featureFlags *featureflags.Manager

	placeService      *service.PlaceService
	reviewService     *service.ReviewService
	reportService     *service.ReportService
	userService       *service.UserService
	moderationService *service.ModerationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditStore(db)
	accounts := repository.NewAccountStore(db)
	appeals := repository.NewAppealStore(db)

	// Initialize Prometheus metrics
	prom := fiberprometheus.New("descubre-api")

	lexicon, err := moderation.NewLexicon()
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)

	pipelineOpts := []moderation.PipelineOption{
		moderation.WithViolationWindow(time.Duration(cfg.ModerationWindowDays) * 24 * time.Hour),
	}
	if cfg.ToxicityAPIURL != "" && cfg.ToxicityAPIKey != "" {
		scorer := moderation.NewPerspectiveScorer(
			cfg.ToxicityAPIURL,
			cfg.ToxicityAPIKey,
			time.Duration(cfg.ToxicityTimeoutSeconds)*time.Second,
			middleware.Logger,
		)
		pipelineOpts = append(pipelineOpts, moderation.WithToxicityScorer(scorer))
		// An undefined flag keeps the scorer fully on; a defined one ramps it.
		if flags.Defined(featureflags.FlagToxicityScorer) {
			pipelineOpts = append(pipelineOpts, moderation.WithToxicityGate(func(accountID uint) bool {
				return flags.Enabled(featureflags.FlagToxicityScorer, accountID)
			}))
		}
	}
	pipeline := moderation.NewPipeline(accounts, auditRepo, lexicon, middleware.Logger, pipelineOpts...)
	resolver := moderation.NewAppealResolver(appeals, auditRepo, middleware.Logger)

	submissionLimiter := ratelimit.New(
		cfg.SubmissionRateLimit,
		time.Duration(cfg.SubmissionRateWindowSeconds)*time.Second,
		ratelimit.SystemClock(),
	)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		placeRepo:      placeRepo,
		reviewRepo:     reviewRepo,
		reportRepo:     reportRepo,
		auditRepo:      auditRepo,
		accounts:       accounts,
		appeals:        appeals,
		pipeline:       pipeline,
		resolver:       resolver,
		limiter:        submissionLimiter,
		featureFlags:   flags,
	}

	server.placeService = service.NewPlaceService(placeRepo, userRepo, middleware.Logger)
	server.reviewService = service.NewReviewService(reviewRepo, placeRepo, userRepo, pipeline, submissionLimiter, middleware.Logger)
	server.reportService = service.NewReportService(reportRepo, userRepo, pipeline, submissionLimiter, middleware.Logger)
	server.userService = service.NewUserService(userRepo)
	server.moderationService = service.NewModerationService(
		pipeline, accounts, auditRepo, userRepo, reportRepo,
		time.Duration(cfg.ModerationWindowDays)*24*time.Hour,
	)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry tracing
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Descubre Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimitWithPolicy(
		s.redis, 10, 5*time.Minute, middleware.FailClosed, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public place routes (browse)
	publicPlaces := api.Group("/places")
	publicPlaces.Get("/", s.GetPlaces)
	publicPlaces.Get("/:id/reviews", s.GetPlaceReviews)
	publicPlaces.Get("/:id", s.GetPlace)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/reviews", s.GetMyReviews)
	users.Get("/me/moderation", s.GetMyModerationRecords)
	users.Get("/me/flags", s.GetFeatureFlags)
	users.Get("/", s.AdminRequired(), s.GetAllUsers)
	users.Post("/:id/promote-admin", s.AdminRequired(), s.PromoteToAdmin)
	users.Post("/:id/demote-admin", s.AdminRequired(), s.DemoteFromAdmin)

	// Protected place routes
	places := protected.Group("/places")
	places.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_place"), s.CreatePlace)
	places.Post("/:id/reviews", s.CreateReview)

	// Report routes
	reports := protected.Group("/reports")
	reports.Post("/", s.CreateReport)

	// Appeal routes
	appeals := protected.Group("/appeals")
	appeals.Post("/", middleware.RateLimit(
		s.redis, 3, time.Hour, "submit_appeal"), s.SubmitAppeal)
	appeals.Get("/me", s.GetMyAppeals)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	adminModeration := admin.Group("/moderation")
	adminModeration.Post("/preview", s.PreviewModeration)
	adminModeration.Get("/flagged", s.GetFlaggedRecords)
	adminModeration.Get("/records/:ref", s.GetModerationRecord)
	adminModeration.Get("/users/:id", s.GetAdminUserDetail)
	adminAppeals := admin.Group("/appeals")
	adminAppeals.Get("/", s.GetPendingAppeals)
	adminAppeals.Post("/:ref/resolve", s.ResolveAppeal)
	admin.Get("/reports", s.GetOpenReports)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis; report it as degraded, not fatal.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Descubre",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userRepo.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "descubre-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "descubre-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Descubre API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Custom error handler
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Bound the submission limiter's memory while the server runs.
	s.limiter.StartSweeper(s.shutdownCtx, 5*time.Minute)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop background goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
