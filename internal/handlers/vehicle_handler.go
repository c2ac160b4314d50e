package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
	ucReservation "github.com/BruksfildServices01/rental-scheduler/internal/usecase/reservation"
)

type VehicleHandler struct {
	availability *ucReservation.GetAvailability
	timezone     string
}

func NewVehicleHandler(availability *ucReservation.GetAvailability, tz string) *VehicleHandler {
	return &VehicleHandler{availability: availability, timezone: tz}
}

// Availability: GET /vehicles/:id/availability?start_date=&end_date=
func (h *VehicleHandler) Availability(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		httperr.BadRequest(c, "missing_dates", "Datas obrigatórias.")
		return
	}

	start, err := timezone.ParseDate(startStr, h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "Data inicial inválida.")
		return
	}
	end, err := timezone.ParseDate(endStr, h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
		return
	}

	available, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		VehicleID: id,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"vehicle_id": id,
		"start_date": start,
		"end_date":   end,
		"days":       domain.DayCount(start, end),
		"available":  available,
	})
}
