package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/config"
	"github.com/tickettrade/resale-market/internal/database"
	"github.com/tickettrade/resale-market/internal/handler"
	"github.com/tickettrade/resale-market/internal/queue"
	"github.com/tickettrade/resale-market/internal/repository"
	"github.com/tickettrade/resale-market/internal/router"
	"github.com/tickettrade/resale-market/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.SeedFixtures {
		if err := database.Seed(ctx, db, cfg.BcryptCost); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// nil when Redis is unreachable; cache and rate limiting turn off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	concerts := repository.NewConcertRepo(db)
	tickets := repository.NewTicketRepo(db)
	orders := repository.NewOrderRepo(db)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Users:    handler.NewUserHandler(users, cfg.BcryptCost),
		Concerts: handler.NewConcertHandler(concerts),
		Tickets:  handler.NewTicketHandler(tickets, concerts),
		Orders:   handler.NewOrderHandler(orders, tickets, service.PublishOrderConfirmed),
		Popular:  handler.NewPopularHandler(handler.DefaultPopularEntries(), nil),
	}

	e := echo.New()
	router.Register(e, cfg, h, rdb)

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
