package handler

import (
	"net/http"

	"bistro/internal/dto"
	"bistro/internal/middleware"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type CartsHandler struct{ svc service.CartService }

func NewCartsHandler(svc service.CartService) *CartsHandler { return &CartsHandler{svc: svc} }

// List godoc
// @Summary      List cart entries for an email
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        email query    string true "Owner email (must match the token)"
// @Success      200   {array}  model.CartItem
// @Failure      403   {object} apierror.APIError
// @Router       /carts [get]
func (h *CartsHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.ActorEmail(c), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add godoc
// @Summary      Add a menu item to the caller's cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CartItemRequest true "Cart entry"
// @Success      200  {object} dto.InsertResult
// @Router       /carts [post]
func (h *CartsHandler) Add(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), middleware.ActorEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove godoc
// @Summary      Remove a cart entry
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Cart entry ObjectID"
// @Success      200 {object} dto.DeleteResult
// @Router       /carts/{id} [delete]
func (h *CartsHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Remove(c.Request.Context(), middleware.ActorEmail(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
