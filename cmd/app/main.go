package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carhive/carbooking/config"
	"github.com/carhive/carbooking/internal/bootstrap"
	"github.com/carhive/carbooking/internal/cache"
	"github.com/carhive/carbooking/internal/kafka"
	"github.com/carhive/carbooking/internal/pricing"
	"github.com/carhive/carbooking/internal/repository"
	"github.com/carhive/carbooking/internal/service/booking"
	dashboardsvc "github.com/carhive/carbooking/internal/service/dashboard"
	"github.com/carhive/carbooking/internal/service/vehicles"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.VehiclesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	vehicleRepo := repository.NewVehicleRepository(pool)
	calc := pricing.NewCalculator(pricing.PolicyFromConfig(cfg.Pricing))

	bookingService := booking.NewBookingService(
		bookingRepo,
		vehicleRepo,
		redisCache,
		producer,
		calc,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.VehicleLockTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	dashboardService := dashboardsvc.NewDashboardService(bookingRepo)
	vehicleService := vehicles.NewVehicleService(vehicleRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, bookingService, dashboardService, vehicleService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
