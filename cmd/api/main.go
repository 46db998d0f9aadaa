package main

import (
	"context"

	"go.uber.org/zap"

	"softdesk/internal/config"
	"softdesk/internal/db"
	"softdesk/internal/handler"
	"softdesk/internal/httpserver"
	"softdesk/internal/mq"
	"softdesk/internal/policy"
	redisclient "softdesk/internal/redis"
	"softdesk/internal/repository"
	"softdesk/internal/service"
	"softdesk/pkg/logger"
)

func main() {
	// Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn, log); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}

	// Init Redis (token revocation); optional
	var tokens *redisclient.TokenStore
	if cfg.Redis.Addr != "" {
		rdb := redisclient.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		tokens = redisclient.NewTokenStore(rdb)
	}

	// Init RabbitMQ publisher; optional
	var events service.EventPublisher
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	}

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	contributorRepo := repository.NewContributorRepository(dbConn, log)
	issueRepo := repository.NewIssueRepository(dbConn, log)
	commentRepo := repository.NewCommentRepository(dbConn, log)
	accountRepo := repository.NewAccountRepository(dbConn, log)

	// Authorization engine
	engine := policy.NewEngine(contributorRepo, projectRepo)

	// Init Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	projectService := service.NewProjectService(projectRepo, contributorRepo, engine, events, log)
	issueService := service.NewIssueService(projectRepo, issueRepo, engine, events, log)
	commentService := service.NewCommentService(issueRepo, commentRepo, engine, events, log)

	var revoker service.TokenRevoker
	if tokens != nil {
		revoker = tokens
	}
	accountService := service.NewAccountService(accountRepo, revoker, events, log)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	contributorHandler := handler.NewContributorHandler(projectService)
	issueHandler := handler.NewIssueHandler(issueService)
	commentHandler := handler.NewCommentHandler(commentService)
	accountHandler := handler.NewAccountHandler(accountService)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		projectHandler,
		contributorHandler,
		issueHandler,
		commentHandler,
		accountHandler,
		cfg.JWT.Secret,
		tokens,
	)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
