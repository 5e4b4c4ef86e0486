package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carhive/carbooking/api"
	"github.com/carhive/carbooking/config"
	"github.com/carhive/carbooking/internal/service/booking"
	dashboardsvc "github.com/carhive/carbooking/internal/service/dashboard"
	"github.com/carhive/carbooking/internal/service/vehicles"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, dashboardSvc dashboardsvc.DashboardUseCase, vehicleSvc vehicles.VehicleUseCase) error {
	router := gin.Default()

	bookingsGroup := router.Group("/bookings")
	vehiclesGroup := router.Group("/vehicles")

	api.NewBookingHandler(bookingSvc).Register(bookingsGroup, vehiclesGroup)
	api.NewDashboardHandler(dashboardSvc).Register(bookingsGroup)
	api.NewVehicleHandler(vehicleSvc).Register(vehiclesGroup)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
