package cli

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-quiz-api/internal/config"
	"github.com/noah-isme/gema-quiz-api/internal/database"
	"github.com/noah-isme/gema-quiz-api/internal/handler"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/router"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

// stores holds the persistence layer selected by configuration.
type stores struct {
	questions  repository.QuestionRepository
	events     repository.EventLogRepository
	pageTitles repository.PageTitleRepository
	presence   repository.PresenceStore
	db         *gorm.DB
	redis      *redis.Client
	nats       *nats.Conn
}

// Close releases every connection openStores managed to open. It is safe on a partially opened
// set of stores.
func (s *stores) Close() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.nats != nil {
		s.nats.Close()
	}
}

func openStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*stores, error) {
	s := &stores{
		pageTitles: repository.NewFilePageTitleRepository(cfg.PageTitlesPath(), logger),
	}

	switch cfg.StorageDriver {
	case config.StorageSQLite, config.StoragePostgres:
		db, err := database.OpenGorm(cfg.StorageDriver, cfg.DatabaseURL, cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.questions = repository.NewGormQuestionRepository(db)
		s.events = repository.NewGormEventLogRepository(db)
	default:
		s.questions = repository.NewFileQuestionRepository(cfg.DataDir, logger)
		s.events = repository.NewFileEventLogRepository(cfg.SessionsDir(), logger)
	}

	if cfg.RedisURL != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.redis = client
		s.presence = repository.NewRedisPresenceStore(client, cfg.PresenceWindow)
	} else {
		s.presence = repository.NewMemoryPresenceStore(cfg.PresenceWindow)
	}

	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.nats = conn
	}

	return s, nil
}

func adminPasswordHash(cfg config.Config) ([]byte, error) {
	if cfg.AdminPasswordHash != "" {
		return []byte(cfg.AdminPasswordHash), nil
	}
	hash, err := service.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return hash, nil
}

// buildApp assembles services, handlers and routes on a new fiber app.
func buildApp(cfg config.Config, s *stores, logger zerolog.Logger) (*fiber.App, service.QuestionService, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	hash, err := adminPasswordHash(cfg)
	if err != nil {
		return nil, nil, err
	}

	var publisher service.EventPublisher = service.NewLogEventPublisher(logger)
	if s.nats != nil {
		publisher = service.NewNATSEventPublisher(s.nats, cfg.NATSSubject)
	}

	questionService := service.NewQuestionService(s.questions, validate, logger)
	analyticsService := service.NewSessionAnalyticsService(s.events, s.questions, logger)
	trackingService := service.NewTrackingService(s.events, publisher, validate, logger)
	presenceService := service.NewPresenceService(s.presence, logger)
	pageTitleService := service.NewPageTitleService(s.pageTitles, logger)
	authService := service.NewAuthService(service.AuthConfig{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.JWTTTL,
	}, validate, logger)

	sessionStore := middleware.NewSessionStore(cfg.SessionTTL, cfg.SessionCookieSecure)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    1 << 20,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AllowOrigins:  cfg.CORSAllowOrigins,
		AccessLogging: cfg.AppEnv != "test",
	})
	router.Register(app, cfg, router.Dependencies{
		QuestionHandler:      handler.NewQuestionHandler(questionService, logger),
		AdminQuestionHandler: handler.NewAdminQuestionHandler(questionService, logger),
		TrackingHandler:      handler.NewTrackingHandler(trackingService, logger),
		DashboardHandler:     handler.NewDashboardHandler(analyticsService, logger),
		PresenceHandler:      handler.NewPresenceHandler(presenceService, logger),
		PageTitleHandler:     handler.NewPageTitleHandler(pageTitleService, logger),
		AuthHandler:          handler.NewAuthHandler(authService, sessionStore, logger),
		Questions:            questionService,
		SessionStore:         sessionStore,
		TrackLimiter:         middleware.RateLimit("track", cfg.TrackRateLimit, cfg.TrackRateWindow, logger),
	})

	return app, questionService, nil
}
