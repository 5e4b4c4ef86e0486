package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/carhive/carbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CustomerID  int64  `json:"customer_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	BookingType string `json:"booking_type"`
	IsAC        bool   `json:"is_ac"`
}

type completeRideRequest struct {
	KmTravelled      float64 `json:"km_travelled"`
	ActualReturnDate string  `json:"actual_return_date"`
	LateReturnFine   *int64  `json:"late_return_fine,omitempty"`
}

type assignDriverRequest struct {
	DriverID int64 `json:"driver_id"`
}

type bookingResponse struct {
	ID               string  `json:"id"`
	VehicleID        int64   `json:"vehicle_id"`
	CustomerID       int64   `json:"customer_id"`
	DriverID         *int64  `json:"driver_id,omitempty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	ActualReturnDate *string `json:"actual_return_date,omitempty"`
	BookingType      string  `json:"booking_type"`
	IsAC             bool    `json:"is_ac"`
	KmTravelled      float64 `json:"km_travelled"`
	Status           string  `json:"status"`
	TotalAmount      int64   `json:"total_amount"`
	CreatedAt        string  `json:"created_at"`
}

func toBookingResponse(b *domain.Booking, now time.Time) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		VehicleID:   b.VehicleID,
		CustomerID:  b.CustomerID,
		DriverID:    b.DriverID,
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		BookingType: string(b.BookingType),
		IsAC:        b.IsAC,
		KmTravelled: b.KmTravelled,
		Status:      string(domain.ResolveStatus(b, now)),
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
	if b.ActualReturnDate != nil {
		s := b.ActualReturnDate.Format(time.DateOnly)
		resp.ActualReturnDate = &s
	}
	return resp
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(bookings, vehicles *gin.RouterGroup) {
	vehicles.POST("/:id/bookings", h.create)
	vehicles.GET("/:id/availability", h.availability)
	bookings.GET("/:id", h.get)
	bookings.POST("/:id/start", h.start)
	bookings.POST("/:id/complete", h.complete)
	bookings.POST("/:id/cancel", h.cancel)
	bookings.POST("/:id/driver", h.assignDriver)
}

func (h *BookingHandler) create(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.ParseInLocation(time.DateOnly, req.StartDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, want YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(time.DateOnly, req.EndDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, want YYYY-MM-DD"})
		return
	}

	created, estimate, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		VehicleID:   vehicleID,
		CustomerID:  req.CustomerID,
		StartDate:   start,
		EndDate:     end,
		BookingType: domain.BookingType(req.BookingType),
		IsAC:        req.IsAC,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":       toBookingResponse(created, time.Now()),
		"fare_estimate": estimate,
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	b, breakdown, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking": toBookingResponse(b, time.Now()),
		"fare":    breakdown,
	})
}

func (h *BookingHandler) start(c *gin.Context) {
	b, err := h.service.StartRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": toBookingResponse(b, time.Now())})
}

func (h *BookingHandler) complete(c *gin.Context) {
	var req completeRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actualReturn, err := time.ParseInLocation(time.DateOnly, req.ActualReturnDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actual_return_date, want YYYY-MM-DD"})
		return
	}

	b, breakdown, err := h.service.CompleteRide(c.Request.Context(), c.Param("id"), booking.CompleteRideInput{
		KmTravelled:      req.KmTravelled,
		ActualReturnDate: actualReturn,
		LateReturnFine:   req.LateReturnFine,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":      toBookingResponse(b, time.Now()),
		"fare":         breakdown,
		"final_amount": breakdown.Chargeable,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, breakdown, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":           toBookingResponse(b, time.Now()),
		"cancellation_fine": breakdown.Chargeable,
	})
}

func (h *BookingHandler) assignDriver(c *gin.Context) {
	var req assignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": toBookingResponse(b, time.Now())})
}

func (h *BookingHandler) availability(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	start, err := time.ParseInLocation(time.DateOnly, c.Query("start"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, want YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(time.DateOnly, c.Query("end"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, want YYYY-MM-DD"})
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	conflicts := make([]bookingResponse, 0, len(availability.Conflicts))
	for i := range availability.Conflicts {
		conflicts = append(conflicts, toBookingResponse(&availability.Conflicts[i], now))
	}
	c.JSON(http.StatusOK, gin.H{
		"is_available":         availability.IsAvailable,
		"conflicting_bookings": conflicts,
	})
}
