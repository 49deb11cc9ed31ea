package handler

import (
	"net/http"

	"bistro/internal/dto"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct{ svc service.MenuService }

func NewMenuHandler(svc service.MenuService) *MenuHandler { return &MenuHandler{svc: svc} }

// List godoc
// @Summary      List the menu
// @Tags         menu
// @Produce      json
// @Success      200 {array} model.MenuItem
// @Router       /menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary      Get one menu item
// @Description  Responds with null when no item has the id.
// @Tags         menu
// @Produce      json
// @Param        id  path     string true "Menu item ObjectID"
// @Success      200 {object} model.MenuItem
// @Failure      400 {object} apierror.APIError
// @Router       /menu/{id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary      Add a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.MenuItemRequest true "Menu item"
// @Success      200  {object} dto.InsertResult
// @Failure      422  {object} apierror.ValidationError
// @Router       /menu [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req dto.MenuItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Replace a menu item's fields
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string              true "Menu item ObjectID"
// @Param        body body     dto.MenuItemRequest true "Menu item"
// @Success      200  {object} dto.UpdateResult
// @Failure      422  {object} apierror.ValidationError "all fields are required"
// @Router       /menu/{id} [patch]
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MenuItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Remove a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Menu item ObjectID"
// @Success      200 {object} dto.DeleteResult
// @Router       /menu/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
