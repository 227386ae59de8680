package handler

import (
	"net/http"

	"skyorder/internal/dto"
	"skyorder/internal/middleware"
	"skyorder/internal/service"

	"github.com/gin-gonic/gin"
)

type SetmealsHandler struct{ svc service.SetmealService }

func NewSetmealsHandler(svc service.SetmealService) *SetmealsHandler {
	return &SetmealsHandler{svc: svc}
}

func (h *SetmealsHandler) Create(c *gin.Context) {
	var req dto.SetmealRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveWithDish(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SetmealsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.SetmealRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateWithDish(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetmealsHandler) Delete(c *gin.Context) {
	ids, ok := queryIDs(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBatch(c.Request.Context(), ids); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SetmealsHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByIDWithDish(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetmealsHandler) List(c *gin.Context) {
	var filter dto.SetmealFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.PageQuery(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetmealsHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	status, ok := paramStatus(c)
	if !ok {
		return
	}
	if err := h.svc.StartOrStop(c.Request.Context(), middleware.CurrentUserID(c), id, status); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
