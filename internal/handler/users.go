package handler

import (
	"net/http"

	"bistro/internal/dto"
	"bistro/internal/middleware"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler { return &UsersHandler{svc: svc} }

// AdminStatus godoc
// @Summary      Check whether an email has the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email path     string true "User email (must match the token)"
// @Success      200   {object} dto.AdminStatusResponse
// @Failure      403   {object} apierror.APIError
// @Router       /users/admin/{email} [get]
func (h *UsersHandler) AdminStatus(c *gin.Context) {
	admin, err := h.svc.AdminStatus(c.Request.Context(), middleware.ActorEmail(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdminStatusResponse{Admin: admin})
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.User
// @Router       /users [get]
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Register godoc
// @Summary      Register a user if the email is new
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body     dto.CreateUserRequest true "User"
// @Success      200  {object} dto.CreateUserResponse
// @Router       /users [post]
func (h *UsersHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Promote godoc
// @Summary      Grant the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "User ObjectID"
// @Success      200 {object} dto.UpdateResult
// @Router       /users/admin/{id} [patch]
func (h *UsersHandler) Promote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Promote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "User ObjectID"
// @Success      200 {object} dto.DeleteResult
// @Router       /users/{id} [delete]
func (h *UsersHandler) Delete(c *gin.Context) {
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
