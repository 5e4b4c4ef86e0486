package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carhive/carbooking/internal/dashboard"
	dashboardsvc "github.com/carhive/carbooking/internal/service/dashboard"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service dashboardsvc.DashboardUseCase
}

func NewDashboardHandler(service dashboardsvc.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(bookings *gin.RouterGroup) {
	bookings.GET("", h.list)
}

// list serves GET /bookings?actor_id=&role=&filter= — the one query every
// dashboard uses, differing only in role and filter key.
func (h *DashboardHandler) list(c *gin.Context) {
	actorID, err := strconv.ParseInt(c.Query("actor_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor_id"})
		return
	}

	role, err := dashboard.ParseRole(c.Query("role"))
	if err != nil {
		writeError(c, err)
		return
	}

	filter := c.Query("filter")
	if filter == "" {
		filter = dashboard.FilterAll
	}

	view, err := h.service.BookingsForActor(c.Request.Context(), actorID, role, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	items := make([]bookingResponse, 0, len(view.Items))
	for i := range view.Items {
		items = append(items, toBookingResponse(&view.Items[i], now))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"counts": view.Counts,
	})
}
