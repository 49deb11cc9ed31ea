package handler

import (
	"net/http"

	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewsHandler struct{ svc service.ReviewService }

func NewReviewsHandler(svc service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{svc: svc}
}

// List godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200 {array} model.Review
// @Router       /reviews [get]
func (h *ReviewsHandler) List(c *gin.Context) {
	reviews, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
