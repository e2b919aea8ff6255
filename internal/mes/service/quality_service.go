package service

import (
	"context"
	"errors"
	"time"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

// QualityCheckService owns quality check validation and the derived
// pass/fail computation. Order references resolve through OrderService.
type QualityCheckService struct {
	repo      *repository.QualityCheckRepository
	orders    *OrderService
	publisher *events.Publisher
}

func NewQualityCheckService(repo *repository.QualityCheckRepository, orders *OrderService) *QualityCheckService {
	return &QualityCheckService{repo: repo, orders: orders}
}

// SetEventPublisher 注入事件发布器
func (s *QualityCheckService) SetEventPublisher(p *events.Publisher) {
	s.publisher = p
}

// Requests carry no passed field: the flag is derived data and anything a
// client sends for it is dropped at the JSON boundary.
type CreateCheckRequest struct {
	OrderID          uint    `json:"order_id"`
	Parameter        string  `json:"parameter"`
	Value            float64 `json:"value"`
	SpecificationMin float64 `json:"specification_min"`
	SpecificationMax float64 `json:"specification_max"`
}

type UpdateCheckRequest struct {
	OrderID          *uint    `json:"order_id"`
	Parameter        *string  `json:"parameter"`
	Value            *float64 `json:"value"`
	SpecificationMin *float64 `json:"specification_min"`
	SpecificationMax *float64 `json:"specification_max"`
}

// checkOrderRef resolves order_id via OrderService. A NotFoundError from
// the order lookup re-surfaces as a validation failure on the field.
func (s *QualityCheckService) checkOrderRef(ctx context.Context, orderID uint) (string, error) {
	_, err := s.orders.Get(ctx, orderID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return "must reference an existing production order", nil
		}
		return "", err
	}
	return "", nil
}

// Create validates the request, computes passed with inclusive bounds and
// stamps checked_at at persistence time.
func (s *QualityCheckService) Create(ctx context.Context, req CreateCheckRequest) (*entity.QualityCheck, error) {
	fields := map[string]string{}

	if req.OrderID == 0 {
		fields["order_id"] = "is required"
	} else {
		rule, err := s.checkOrderRef(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}
		if rule != "" {
			fields["order_id"] = rule
		}
	}
	if req.Parameter == "" {
		fields["parameter"] = "must not be empty"
	}
	if req.SpecificationMax < req.SpecificationMin {
		fields["specification_min"] = "must be less than or equal to specification_max"
		fields["specification_max"] = "must be greater than or equal to specification_min"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	check := &entity.QualityCheck{
		OrderID:          req.OrderID,
		Parameter:        req.Parameter,
		Value:            req.Value,
		SpecificationMin: req.SpecificationMin,
		SpecificationMax: req.SpecificationMax,
		CheckedAt:        time.Now().UTC(),
	}
	check.Evaluate()

	if err := s.repo.Create(ctx, check); err != nil {
		// FK violation: the order vanished after checkOrderRef
		if errors.Is(err, repository.ErrReferenced) {
			return nil, &ValidationError{Fields: map[string]string{"order_id": "must reference an existing production order"}}
		}
		return nil, &StorageError{Err: err}
	}

	s.publisher.Publish(ctx, "quality_check", "created", check.ID)
	return check, nil
}

// Update merges the supplied fields, re-validates and always recomputes
// passed from the stored value and spec bounds.
func (s *QualityCheckService) Update(ctx context.Context, id uint, req UpdateCheckRequest) (*entity.QualityCheck, error) {
	check, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "quality check", id)
	}

	fields := map[string]string{}
	if req.OrderID != nil {
		if *req.OrderID == 0 {
			fields["order_id"] = "is required"
		} else {
			rule, err := s.checkOrderRef(ctx, *req.OrderID)
			if err != nil {
				return nil, err
			}
			if rule != "" {
				fields["order_id"] = rule
			} else {
				check.OrderID = *req.OrderID
			}
		}
	}
	if req.Parameter != nil {
		if *req.Parameter == "" {
			fields["parameter"] = "must not be empty"
		} else {
			check.Parameter = *req.Parameter
		}
	}
	if req.Value != nil {
		check.Value = *req.Value
	}
	if req.SpecificationMin != nil {
		check.SpecificationMin = *req.SpecificationMin
	}
	if req.SpecificationMax != nil {
		check.SpecificationMax = *req.SpecificationMax
	}
	if check.SpecificationMax < check.SpecificationMin {
		fields["specification_min"] = "must be less than or equal to specification_max"
		fields["specification_max"] = "must be greater than or equal to specification_min"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	check.Evaluate()

	if err := s.repo.Update(ctx, check); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, &ValidationError{Fields: map[string]string{"order_id": "must reference an existing production order"}}
		}
		return nil, &StorageError{Err: err}
	}

	s.publisher.Publish(ctx, "quality_check", "updated", check.ID)
	return check, nil
}

func (s *QualityCheckService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStorage(err, "quality check", id)
	}

	s.publisher.Publish(ctx, "quality_check", "deleted", id)
	return nil
}

func (s *QualityCheckService) Get(ctx context.Context, id uint) (*entity.QualityCheck, error) {
	check, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "quality check", id)
	}
	return check, nil
}

// List returns checks by ascending checked_at, optionally for one order.
func (s *QualityCheckService) List(ctx context.Context, orderID uint) ([]entity.QualityCheck, error) {
	checks, err := s.repo.FindAll(ctx, orderID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return checks, nil
}

// PassRate returns the fraction of passed checks for an order, or nil when
// the order has no checks yet.
func (s *QualityCheckService) PassRate(ctx context.Context, orderID uint) (rate *float64, total, passed int64, err error) {
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return nil, 0, 0, err
	}
	total, passed, err = s.repo.PassStats(ctx, orderID)
	if err != nil {
		return nil, 0, 0, &StorageError{Err: err}
	}
	if total == 0 {
		return nil, 0, 0, nil
	}
	r := float64(passed) / float64(total)
	return &r, total, passed, nil
}
