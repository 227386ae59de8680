package handler

import (
	"net/http"

	"skyorder/internal/dto"
	"skyorder/internal/middleware"
	"skyorder/internal/service"

	"github.com/gin-gonic/gin"
)

// ShoppingCartHandler serves the signed-in customer's own cart. The owner is
// always taken from the token.
type ShoppingCartHandler struct{ svc service.ShoppingCartService }

func NewShoppingCartHandler(svc service.ShoppingCartService) *ShoppingCartHandler {
	return &ShoppingCartHandler{svc: svc}
}

func (h *ShoppingCartHandler) Add(c *gin.Context) {
	var req dto.ShoppingCartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Add(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingCartHandler) Sub(c *gin.Context) {
	var req dto.ShoppingCartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Sub(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingCartHandler) List(c *gin.Context) {
	lines, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *ShoppingCartHandler) Clean(c *gin.Context) {
	if err := h.svc.Clean(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
