package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// StationService owns workstation validation and the station/order relation.
type StationService struct {
	repo      *repository.StationRepository
	orderRepo *repository.OrderRepository
	publisher *events.Publisher
}

func NewStationService(repo *repository.StationRepository, orderRepo *repository.OrderRepository) *StationService {
	return &StationService{repo: repo, orderRepo: orderRepo}
}

// SetEventPublisher 注入事件发布器
func (s *StationService) SetEventPublisher(p *events.Publisher) {
	s.publisher = p
}

type CreateStationRequest struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	CurrentOrderID *uint  `json:"current_order_id"`
}

type UpdateStationRequest struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	CurrentOrderID *uint   `json:"current_order_id"`
}

// checkOrderRef verifies that current_order_id references an existing,
// non-terminal order. Returns the field rule violated, or "".
func (s *StationService) checkOrderRef(ctx context.Context, orderID uint) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "must reference an existing production order", nil
		}
		return "", &StorageError{Err: err}
	}
	if order.Terminal() {
		return fmt.Sprintf("must not reference a %s order", order.Status), nil
	}
	return "", nil
}

// Create validates name, status and the order reference, collecting all
// violations. Duplicate names lose at the unique index.
func (s *StationService) Create(ctx context.Context, req CreateStationRequest) (*entity.WorkStation, error) {
	fields := map[string]string{}

	if req.Name == "" {
		fields["name"] = "must not be empty"
	}
	status := req.Status
	if status == "" {
		status = entity.StationStatusIdle
	} else if !entity.ValidStationStatus(status) {
		fields["status"] = "must be one of idle, active, maintenance, error"
	}
	if req.CurrentOrderID != nil {
		rule, err := s.checkOrderRef(ctx, *req.CurrentOrderID)
		if err != nil {
			return nil, err
		}
		if rule != "" {
			fields["current_order_id"] = rule
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	station := &entity.WorkStation{
		Name:           req.Name,
		Location:       req.Location,
		Status:         status,
		CurrentOrderID: req.CurrentOrderID,
	}
	if err := s.repo.Create(ctx, station); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: fmt.Sprintf("station name %q already exists", req.Name)}
		}
		// FK violation: the order vanished after checkOrderRef
		if errors.Is(err, repository.ErrReferenced) {
			return nil, &ValidationError{Fields: map[string]string{"current_order_id": "must reference an existing production order"}}
		}
		return nil, &StorageError{Err: err}
	}

	s.publisher.Publish(ctx, "workstation", "created", station.ID)
	return station, nil
}

// Update merges the supplied fields and re-validates.
func (s *StationService) Update(ctx context.Context, id uint, req UpdateStationRequest) (*entity.WorkStation, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "workstation", id)
	}

	fields := map[string]string{}
	if req.Name != nil {
		if *req.Name == "" {
			fields["name"] = "must not be empty"
		} else {
			station.Name = *req.Name
		}
	}
	if req.Location != nil {
		station.Location = *req.Location
	}
	if req.Status != nil {
		if !entity.ValidStationStatus(*req.Status) {
			fields["status"] = "must be one of idle, active, maintenance, error"
		} else {
			station.Status = *req.Status
		}
	}
	if req.CurrentOrderID != nil {
		rule, err := s.checkOrderRef(ctx, *req.CurrentOrderID)
		if err != nil {
			return nil, err
		}
		if rule != "" {
			fields["current_order_id"] = rule
		} else {
			station.CurrentOrderID = req.CurrentOrderID
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Pre-check for a friendlier message; the unique index still decides
	// under concurrency.
	if req.Name != nil {
		n, err := s.repo.CountByName(ctx, station.Name, station.ID)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
		if n > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf("station name %q already exists", station.Name)}
		}
	}

	if err := s.repo.Update(ctx, station); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: fmt.Sprintf("station name %q already exists", station.Name)}
		}
		if errors.Is(err, repository.ErrReferenced) {
			return nil, &ValidationError{Fields: map[string]string{"current_order_id": "must reference an existing production order"}}
		}
		return nil, wrapStorage(err, "workstation", id)
	}

	s.publisher.Publish(ctx, "workstation", "updated", station.ID)
	return station, nil
}

// AssignOrder puts an order on a station. Orders that are completed or
// cancelled cannot be assigned. An idle station becomes active.
func (s *StationService) AssignOrder(ctx context.Context, stationID, orderID uint) (*entity.WorkStation, error) {
	station, err := s.repo.FindByID(ctx, stationID)
	if err != nil {
		return nil, wrapStorage(err, "workstation", stationID)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, wrapStorage(err, "production order", orderID)
	}
	if order.Terminal() {
		return nil, &ConflictError{Message: fmt.Sprintf("cannot assign %s order %d to a station", order.Status, orderID)}
	}

	station.CurrentOrderID = &orderID
	if station.Status == entity.StationStatusIdle {
		station.Status = entity.StationStatusActive
	}
	if err := s.repo.Update(ctx, station); err != nil {
		// FK violation: the order vanished after the lookup above
		if errors.Is(err, repository.ErrReferenced) {
			return nil, &NotFoundError{Entity: "production order", ID: orderID}
		}
		return nil, wrapStorage(err, "workstation", stationID)
	}

	s.publisher.Publish(ctx, "workstation", "updated", station.ID)
	return station, nil
}

// Release clears the assigned order. An active station returns to idle.
func (s *StationService) Release(ctx context.Context, stationID uint) (*entity.WorkStation, error) {
	station, err := s.repo.FindByID(ctx, stationID)
	if err != nil {
		return nil, wrapStorage(err, "workstation", stationID)
	}

	station.CurrentOrderID = nil
	if station.Status == entity.StationStatusActive {
		station.Status = entity.StationStatusIdle
	}
	if err := s.repo.Update(ctx, station); err != nil {
		return nil, wrapStorage(err, "workstation", stationID)
	}

	s.publisher.Publish(ctx, "workstation", "updated", station.ID)
	return station, nil
}

// Delete rejects while an order is still assigned; release first.
func (s *StationService) Delete(ctx context.Context, id uint) error {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return wrapStorage(err, "workstation", id)
	}
	if station.CurrentOrderID != nil {
		return &ConflictError{Message: fmt.Sprintf("station %d still has order %d assigned, release it first", id, *station.CurrentOrderID)}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStorage(err, "workstation", id)
	}

	s.publisher.Publish(ctx, "workstation", "deleted", id)
	return nil
}

func (s *StationService) Get(ctx context.Context, id uint) (*entity.WorkStation, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "workstation", id)
	}
	return station, nil
}

// List returns stations by ascending id, optionally filtered by status.
func (s *StationService) List(ctx context.Context, status string) ([]entity.WorkStation, error) {
	stations, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return stations, nil
}
