package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/service"
)

// OrderHandler 生产订单处理器。Success bodies are bare entities to match
// the console's wire contract.
type OrderHandler struct {
	svc      *service.OrderService
	checkSvc *service.QualityCheckService
}

func NewOrderHandler(svc *service.OrderService, checkSvc *service.QualityCheckService) *OrderHandler {
	return &OrderHandler{svc: svc, checkSvc: checkSvc}
}

// List GET /production-orders/?status=
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Create POST /production-orders/
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get GET /production-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Update PUT /production-orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete DELETE /production-orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
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

// PassRate GET /production-orders/:id/pass-rate
func (h *OrderHandler) PassRate(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	rate, total, passed, err := h.checkSvc.PassRate(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":  id,
		"total":     total,
		"passed":    passed,
		"pass_rate": rate,
	})
}
