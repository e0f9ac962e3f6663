package main

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	loc, err := time.LoadLocation(cfg.RestaurantTZ)
	if err != nil {
		logrus.WithError(err).Fatalf("invalid RESTAURANT_TZ %q", cfg.RestaurantTZ)
	}

	reservations := repository.NewReservationRepo(db)
	tables := repository.NewTableRepo(db)
	publisher := service.NewPublisher(cfg.AMQPURL)

	reservationHandler := handler.NewReservationHandler(reservations, loc)
	tableHandler := handler.NewTableHandler(tables, reservations, publisher)

	rdb := config.NewRedisClient()
	rateLimit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = router.HTTPErrorHandler
	e.Use(rateLimit)
	router.Register(e, reservationHandler, tableHandler, cache)

	go queue.StartTableEventsConsumer(cfg.AMQPURL)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "tz": cfg.RestaurantTZ}).
		Info("starting server")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
