package handler

import (
	"net/http"

	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

// AdminStats godoc
// @Summary      Dashboard totals
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.AdminStatsResponse
// @Router       /admin-stats [get]
func (h *StatsHandler) AdminStats(c *gin.Context) {
	stats, err := h.svc.AdminStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// OrderStats godoc
// @Summary      Units sold and revenue per menu category
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.OrderStat
// @Router       /order-stats [get]
func (h *StatsHandler) OrderStats(c *gin.Context) {
	rows, err := h.svc.OrderStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
