package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
	"github.com/idrak-dareshani/mes-system/internal/mes/service"
)

// Handlers 处理器集合
type Handlers struct {
	Order        *OrderHandler
	Station      *StationHandler
	QualityCheck *QualityCheckHandler
	Dashboard    *DashboardHandler
	SSE          *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Order:        NewOrderHandler(svc.Order, svc.QualityCheck),
		Station:      NewStationHandler(svc.Station),
		QualityCheck: NewQualityCheckHandler(svc.QualityCheck),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		SSE:          NewSSEHandler(hub),
	}
}

// ErrorResponse 错误响应结构。Fields 仅在校验错误时出现。
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondError maps the domain error taxonomy onto HTTP statuses:
// validation 400, not found 404, conflict 409, anything else 500.
func RespondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var nf *service.NotFoundError
	var ce *service.ConflictError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "validation failed",
			Fields:  ve.Fields,
		})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40400,
			Message: nf.Error(),
		})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    40900,
			Message: ce.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50000,
			Message: "internal error",
		})
	}
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40000, Message: message})
}

// ParamID parses the :id path parameter. Responds 400 and returns false on
// malformed input.
func ParamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id: "+c.Param("id"))
		return 0, false
	}
	return uint(id), true
}
