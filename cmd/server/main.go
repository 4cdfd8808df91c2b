package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/config"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/database"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/handler"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/middleware"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/queue"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/router"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: when unreachable the cache and rate limiter
	// run as no-ops.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	branches := repository.NewBranchRepo(db)
	tables := repository.NewTableRepo(db)
	bookings := repository.NewBookingRepo(db)

	svc := service.NewBookingService(users, restaurants, branches, tables, bookings, service.NewRabbitPublisher())

	authH := handler.NewAuthHandler(cfg, users)
	restH := handler.NewRestaurantHandler(restaurants)
	branchH := handler.NewBranchHandler(branches)
	tableH := handler.NewTableHandler(tables, svc)
	bookingH := handler.NewBookingHandler(svc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, restH, branchH, tableH, cache)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterOwner(e, restH, branchH, tableH, bookingH, cfg.JWTSecret)

	// Consume booking.confirmed events in the background; the loop
	// reconnects on broker failure.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
