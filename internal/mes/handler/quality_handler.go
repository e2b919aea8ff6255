package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/service"
)

// QualityCheckHandler 质检处理器
type QualityCheckHandler struct {
	svc *service.QualityCheckService
}

func NewQualityCheckHandler(svc *service.QualityCheckService) *QualityCheckHandler {
	return &QualityCheckHandler{svc: svc}
}

// orderIDQuery parses the optional ?order_id= filter, 0 when absent.
func orderIDQuery(c *gin.Context) (uint, bool) {
	raw := c.Query("order_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		BadRequest(c, "invalid order_id: "+raw)
		return 0, false
	}
	return uint(id), true
}

// List GET /quality-checks/?order_id=
func (h *QualityCheckHandler) List(c *gin.Context) {
	orderID, ok := orderIDQuery(c)
	if !ok {
		return
	}
	checks, err := h.svc.List(c.Request.Context(), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// Create POST /quality-checks/
func (h *QualityCheckHandler) Create(c *gin.Context) {
	var req service.CreateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	check, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, check)
}

// Get GET /quality-checks/:id
func (h *QualityCheckHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	check, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// Update PUT /quality-checks/:id
func (h *QualityCheckHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req service.UpdateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	check, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// Delete DELETE /quality-checks/:id
func (h *QualityCheckHandler) Delete(c *gin.Context) {
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

// Export GET /quality-checks/export?order_id=
func (h *QualityCheckHandler) Export(c *gin.Context) {
	orderID, ok := orderIDQuery(c)
	if !ok {
		return
	}
	f, filename, err := h.svc.Export(c.Request.Context(), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 50000, Message: "write excel: " + err.Error()})
	}
}
