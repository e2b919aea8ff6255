package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// dueDateFormats are the accepted wire formats for due_date. The console
// sends date-only strings, API clients may send full RFC3339 timestamps.
var dueDateFormats = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}

// OrderService owns production order validation and lifecycle.
type OrderService struct {
	repo      *repository.OrderRepository
	publisher *events.Publisher
}

func NewOrderService(repo *repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// SetEventPublisher 注入事件发布器
func (s *OrderService) SetEventPublisher(p *events.Publisher) {
	s.publisher = p
}

type CreateOrderRequest struct {
	OrderNumber string `json:"order_number"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

type UpdateOrderRequest struct {
	OrderNumber *string `json:"order_number"`
	ProductCode *string `json:"product_code"`
	Quantity    *int    `json:"quantity"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// Create validates every field, collecting all violations into one
// ValidationError, then persists. A duplicate order_number loses at the
// unique index and surfaces as ConflictError, even under concurrent creates.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*entity.ProductionOrder, error) {
	fields := map[string]string{}

	if req.OrderNumber == "" {
		fields["order_number"] = "must not be empty"
	}
	if req.ProductCode == "" {
		fields["product_code"] = "must not be empty"
	}
	if req.Quantity <= 0 {
		fields["quantity"] = "must be a positive integer"
	}
	status := req.Status
	if status == "" {
		status = entity.OrderStatusPending
	} else if !entity.ValidOrderStatus(status) {
		fields["status"] = "must be one of pending, active, completed, cancelled"
	}
	var dueDate time.Time
	if req.DueDate == "" {
		fields["due_date"] = "is required"
	} else {
		t, err := parseDueDate(req.DueDate)
		if err != nil {
			fields["due_date"] = "must be an ISO-8601 date"
		} else {
			dueDate = t
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	order := &entity.ProductionOrder{
		OrderNumber: req.OrderNumber,
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		Status:      status,
		DueDate:     dueDate,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: fmt.Sprintf("order_number %q already exists", req.OrderNumber)}
		}
		return nil, &StorageError{Err: err}
	}

	s.publisher.Publish(ctx, "production_order", "created", order.ID)
	return order, nil
}

// Update merges the supplied fields into the stored order and re-validates.
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*entity.ProductionOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "production order", id)
	}

	fields := map[string]string{}
	if req.OrderNumber != nil {
		if *req.OrderNumber == "" {
			fields["order_number"] = "must not be empty"
		} else {
			order.OrderNumber = *req.OrderNumber
		}
	}
	if req.ProductCode != nil {
		if *req.ProductCode == "" {
			fields["product_code"] = "must not be empty"
		} else {
			order.ProductCode = *req.ProductCode
		}
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			fields["quantity"] = "must be a positive integer"
		} else {
			order.Quantity = *req.Quantity
		}
	}
	if req.Status != nil {
		if !entity.ValidOrderStatus(*req.Status) {
			fields["status"] = "must be one of pending, active, completed, cancelled"
		} else {
			order.Status = *req.Status
		}
	}
	if req.DueDate != nil {
		t, err := parseDueDate(*req.DueDate)
		if err != nil {
			fields["due_date"] = "must be an ISO-8601 date"
		} else {
			order.DueDate = t
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// A completed or cancelled order cannot stay assigned to a station;
	// release the stations first.
	if req.Status != nil && order.Terminal() {
		refs, err := s.repo.CountAssignedStations(ctx, order.ID)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
		if refs > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf(
				"cannot mark order %d %s while %d workstation(s) still reference it, release them first",
				order.ID, order.Status, refs)}
		}
	}

	// Pre-check for a friendlier message; the unique index still decides
	// under concurrency.
	if req.OrderNumber != nil {
		n, err := s.repo.CountByNumber(ctx, order.OrderNumber, order.ID)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
		if n > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf("order_number %q already exists", order.OrderNumber)}
		}
	}

	if err := s.repo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: fmt.Sprintf("order_number %q already exists", order.OrderNumber)}
		}
		return nil, &StorageError{Err: err}
	}

	s.publisher.Publish(ctx, "production_order", "updated", order.ID)
	return order, nil
}

// Delete rejects with ConflictError while quality checks or workstations
// still reference the order. The pre-count gives the error message its
// numbers; the foreign keys on quality_checks.order_id and
// workstations.current_order_id are what make the rejection race-proof
// against a reference committed after the count.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	checkRefs, stationRefs, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			if checkRefs == 0 && stationRefs == 0 {
				// A reference committed between the count and the delete
				return &ConflictError{Message: "order is still referenced by quality checks or workstations"}
			}
			return &ConflictError{Message: fmt.Sprintf(
				"order is still referenced by %d quality check(s) and %d workstation(s)",
				checkRefs, stationRefs)}
		}
		return wrapStorage(err, "production order", id)
	}

	s.publisher.Publish(ctx, "production_order", "deleted", id)
	return nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*entity.ProductionOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "production order", id)
	}
	return order, nil
}

// List returns orders by ascending id, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status string) ([]entity.ProductionOrder, error) {
	orders, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return orders, nil
}
