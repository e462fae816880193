package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/crmdesk/company-dashboard/internal/config"
	"github.com/crmdesk/company-dashboard/internal/database"
	"github.com/crmdesk/company-dashboard/internal/handler"
	"github.com/crmdesk/company-dashboard/internal/middleware"
	"github.com/crmdesk/company-dashboard/internal/queue"
	"github.com/crmdesk/company-dashboard/internal/repository"
	"github.com/crmdesk/company-dashboard/internal/router"
	"github.com/crmdesk/company-dashboard/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limit disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	comments := repository.NewCommentRepo(db)
	requests := repository.NewDataRequestRepo(db)
	facebook := repository.NewFacebookRepo(db)
	holidays := repository.NewHolidayRepo(db)

	assignment := service.NewAssignmentEngine(db, requests, companies, facebook, cfg.AssignBatchSize)
	categorization := service.NewCategorizationEngine(db, comments, companies)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAPI(e, router.APIHandlers{
		Companies: handler.NewCompanyHandler(companies),
		Comments:  handler.NewCommentHandler(comments, categorization),
		Requests:  handler.NewDataRequestHandler(requests, assignment),
		Facebook:  handler.NewFacebookRequestHandler(facebook, assignment),
		Holidays:  handler.NewHolidayHandler(holidays),
		Users:     handler.NewAdminUserHandler(users),
	}, cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Consume approval events in the background; the consumer keeps its
	// own reconnect loop.
	go func() {
		if err := queue.StartApprovalConsumer(); err != nil {
			log.Printf("approval-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
