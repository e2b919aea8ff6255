package repository

import (
	"context"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"gorm.io/gorm"
)

// QualityCheckRepository 质检记录仓库
type QualityCheckRepository struct {
	db *gorm.DB
}

func NewQualityCheckRepository(db *gorm.DB) *QualityCheckRepository {
	return &QualityCheckRepository{db: db}
}

// FindByID 根据ID查找质检记录
func (r *QualityCheckRepository) FindByID(ctx context.Context, id uint) (*entity.QualityCheck, error) {
	var check entity.QualityCheck
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&check).Error
	if err != nil {
		return nil, translate(err)
	}
	return &check, nil
}

// FindAll 查询质检列表，可按订单过滤，按检验时间升序
func (r *QualityCheckRepository) FindAll(ctx context.Context, orderID uint) ([]entity.QualityCheck, error) {
	var checks []entity.QualityCheck
	query := r.db.WithContext(ctx).Model(&entity.QualityCheck{})
	if orderID != 0 {
		query = query.Where("order_id = ?", orderID)
	}
	err := query.Order("checked_at ASC, id ASC").Find(&checks).Error
	return checks, translate(err)
}

// Create 创建质检记录
func (r *QualityCheckRepository) Create(ctx context.Context, check *entity.QualityCheck) error {
	return translate(r.db.WithContext(ctx).Create(check).Error)
}

// Update 保存质检记录
func (r *QualityCheckRepository) Update(ctx context.Context, check *entity.QualityCheck) error {
	return translate(r.db.WithContext(ctx).Save(check).Error)
}

// Delete 删除质检记录
func (r *QualityCheckRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.QualityCheck{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PassStats 统计某订单的质检总数和通过数。orderID为0时统计全部。
func (r *QualityCheckRepository) PassStats(ctx context.Context, orderID uint) (total, passed int64, err error) {
	query := r.db.WithContext(ctx).Model(&entity.QualityCheck{})
	if orderID != 0 {
		query = query.Where("order_id = ?", orderID)
	}
	if err = query.Count(&total).Error; err != nil {
		return 0, 0, translate(err)
	}
	query = r.db.WithContext(ctx).Model(&entity.QualityCheck{}).Where("passed = ?", true)
	if orderID != 0 {
		query = query.Where("order_id = ?", orderID)
	}
	if err = query.Count(&passed).Error; err != nil {
		return 0, 0, translate(err)
	}
	return total, passed, nil
}
