package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-booking-api/internal/models"
	"github.com/noah-isme/lesson-booking-api/pkg/response"
)

type periodLister interface {
	List(ctx context.Context) ([]models.Period, error)
}

// PeriodHandler exposes the period catalog.
type PeriodHandler struct {
	periods periodLister
}

// NewPeriodHandler constructs handler.
func NewPeriodHandler(periods periodLister) *PeriodHandler {
	return &PeriodHandler{periods: periods}
}

// List godoc
// @Summary List periods
// @Tags Periods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	periods, err := h.periods.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods)
}
