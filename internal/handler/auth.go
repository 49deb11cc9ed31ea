package handler

import (
	"net/http"

	"bistro/internal/dto"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// IssueToken godoc
// @Summary      Issue an access token
// @Description  Signs the caller's email and name into a short-lived HS256 token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body     dto.TokenRequest true "Identity claim"
// @Success      200  {object} dto.TokenResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /jwt [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.IssueToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
