package main

import (
	"database/sql"
	"net/http"
	"os"

	_ "github.com/lib/pq"

	"cheerup/config"
	_ "cheerup/docs"
	"cheerup/internal/adapters/auth"
	"cheerup/internal/adapters/email"
	delivery "cheerup/internal/delivery/http"
	"cheerup/internal/delivery/http/controllers"
	"cheerup/internal/delivery/http/middleware"
	"cheerup/internal/repository/postgres"
	"cheerup/internal/services"
)

const bcryptCost = 10

// @title CheerUp API
// @version 1.0
// @description Capacity-limited events with creator-approved participation and symmetric friendships.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewUserProfileRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	joinRepo := postgres.NewEventJoinRepository(db)
	friendRepo := postgres.NewFriendRequestRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	hasher := auth.NewBcryptHasher(bcryptCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, mailer, logger)
	authService := services.NewAuthService(userRepo, profileRepo, hasher, issuer, cfg.TokenExpiry)
	eventService := services.NewEventService(eventRepo, joinRepo)
	participationService := services.NewParticipationService(eventRepo, joinRepo, notificationService)
	friendshipService := services.NewFriendshipService(friendRepo, userRepo, notificationService)
	profileService := services.NewProfileService(profileRepo, userRepo, eventRepo)

	mux := delivery.NewRouter(
		verifier,
		controllers.NewAuthController(logger, authService),
		controllers.NewEventController(logger, eventService),
		controllers.NewParticipationController(logger, participationService),
		controllers.NewFriendshipController(logger, friendshipService),
		controllers.NewProfileController(logger, profileService),
		controllers.NewNotificationController(logger, notificationService),
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.Logging(logger, mux))

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
