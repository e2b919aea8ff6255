package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrReferenced = errors.New("record is referenced")
)

// Repositories MES仓库集合
type Repositories struct {
	Order        *OrderRepository
	Station      *StationRepository
	QualityCheck *QualityCheckRepository
}

// NewRepositories 创建MES仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:        NewOrderRepository(db),
		Station:      NewStationRepository(db),
		QualityCheck: NewQualityCheckRepository(db),
	}
}

// translate maps gorm sentinels onto repository errors so services never
// see storage-specific error values.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenced
	default:
		return err
	}
}
