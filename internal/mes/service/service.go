package service

import (
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// Services MES服务集合
type Services struct {
	Order        *OrderService
	Station      *StationService
	QualityCheck *QualityCheckService
	Dashboard    *DashboardService
}

// NewServices 创建MES服务集合
func NewServices(repos *repository.Repositories) *Services {
	orderSvc := NewOrderService(repos.Order)
	return &Services{
		Order:        orderSvc,
		Station:      NewStationService(repos.Station, repos.Order),
		QualityCheck: NewQualityCheckService(repos.QualityCheck, orderSvc),
		Dashboard:    NewDashboardService(repos.Order, repos.Station, repos.QualityCheck),
	}
}

// SetEventPublisher 注入事件发布器到各写路径服务
func (s *Services) SetEventPublisher(p *events.Publisher) {
	s.Order.SetEventPublisher(p)
	s.Station.SetEventPublisher(p)
	s.QualityCheck.SetEventPublisher(p)
}
