package handler

import (
	"net/http"

	"skyorder/internal/dto"
	"skyorder/internal/middleware"
	"skyorder/internal/service"

	"github.com/gin-gonic/gin"
)

type DishesHandler struct{ svc service.DishService }

func NewDishesHandler(svc service.DishService) *DishesHandler {
	return &DishesHandler{svc: svc}
}

func (h *DishesHandler) Create(c *gin.Context) {
	var req dto.DishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Save(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DishesHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.DishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishesHandler) Delete(c *gin.Context) {
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

func (h *DishesHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishesHandler) List(c *gin.Context) {
	var filter dto.DishFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DishesHandler) SetStatus(c *gin.Context) {
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
