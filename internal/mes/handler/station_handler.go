package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/service"
)

// StationHandler 工位处理器
type StationHandler struct {
	svc *service.StationService
}

func NewStationHandler(svc *service.StationService) *StationHandler {
	return &StationHandler{svc: svc}
}

// List GET /api/workstations/?status=
func (h *StationHandler) List(c *gin.Context) {
	stations, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// Create POST /api/workstations/
func (h *StationHandler) Create(c *gin.Context) {
	var req service.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	station, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, station)
}

// Get GET /api/workstations/:id
func (h *StationHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	station, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// Update PUT /api/workstations/:id
func (h *StationHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req service.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	station, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// Delete DELETE /api/workstations/:id
func (h *StationHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign POST /api/workstations/:id/assign {"order_id": n}
func (h *StationHandler) Assign(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == 0 {
		BadRequest(c, "order_id is required")
		return
	}
	station, err := h.svc.AssignOrder(c.Request.Context(), id, req.OrderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// Release POST /api/workstations/:id/release
func (h *StationHandler) Release(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	station, err := h.svc.Release(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}
