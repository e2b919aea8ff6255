package service

import (
	"context"

	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// DashboardService computes the console's headline aggregates. The UI used
// to show hardcoded quality and efficiency numbers; these are the real ones.
type DashboardService struct {
	orders   *repository.OrderRepository
	stations *repository.StationRepository
	checks   *repository.QualityCheckRepository
}

func NewDashboardService(orders *repository.OrderRepository, stations *repository.StationRepository, checks *repository.QualityCheckRepository) *DashboardService {
	return &DashboardService{orders: orders, stations: stations, checks: checks}
}

// DashboardStats 看板统计
type DashboardStats struct {
	Orders             map[string]int64 `json:"orders"`
	Stations           map[string]int64 `json:"stations"`
	TotalChecks        int64            `json:"total_checks"`
	PassedChecks       int64            `json:"passed_checks"`
	QualityRate        *float64         `json:"quality_rate"`        // nil without checks
	StationUtilization *float64         `json:"station_utilization"` // nil without stations
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	orderCounts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	stationCounts, err := s.stations.CountByStatus(ctx)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	total, passed, err := s.checks.PassStats(ctx, 0)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	stats := &DashboardStats{
		Orders:       orderCounts,
		Stations:     stationCounts,
		TotalChecks:  total,
		PassedChecks: passed,
	}
	if total > 0 {
		rate := float64(passed) / float64(total)
		stats.QualityRate = &rate
	}
	var stationTotal, busy int64
	for status, n := range stationCounts {
		stationTotal += n
		if status == "active" {
			busy += n
		}
	}
	if stationTotal > 0 {
		util := float64(busy) / float64(stationTotal)
		stats.StationUtilization = &util
	}
	return stats, nil
}
