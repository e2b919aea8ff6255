package repository

import (
	"context"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"gorm.io/gorm"
)

// OrderRepository 生产订单仓库
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID 根据ID查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*entity.ProductionOrder, error) {
	var order entity.ProductionOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// FindAll 查询订单列表，可按状态过滤，按ID升序
func (r *OrderRepository) FindAll(ctx context.Context, status string) ([]entity.ProductionOrder, error) {
	var orders []entity.ProductionOrder
	query := r.db.WithContext(ctx).Model(&entity.ProductionOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id ASC").Find(&orders).Error
	return orders, translate(err)
}

// Create 创建订单。order_number 唯一索引冲突映射为 ErrDuplicate。
func (r *OrderRepository) Create(ctx context.Context, order *entity.ProductionOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

// Update 保存订单
func (r *OrderRepository) Update(ctx context.Context, order *entity.ProductionOrder) error {
	return translate(r.db.WithContext(ctx).Save(order).Error)
}

// Delete 删除订单。引用计数只用于错误信息；并发插入由外键约束兜底，
// 竞争窗口内的删除以 ErrReferenced 失败。
func (r *OrderRepository) Delete(ctx context.Context, id uint) (checkRefs, stationRefs int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.QualityCheck{}).Where("order_id = ?", id).Count(&checkRefs).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.WorkStation{}).Where("current_order_id = ?", id).Count(&stationRefs).Error; err != nil {
			return err
		}
		if checkRefs > 0 || stationRefs > 0 {
			return ErrReferenced
		}
		res := tx.Delete(&entity.ProductionOrder{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return checkRefs, stationRefs, translate(err)
}

// CountByNumber 统计使用指定订单号的订单数，可排除某个ID（更新场景）。
func (r *OrderRepository) CountByNumber(ctx context.Context, number string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.ProductionOrder{}).Where("order_number = ?", number)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, translate(err)
}

// CountAssignedStations 统计当前引用该订单的工位数
func (r *OrderRepository) CountAssignedStations(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.WorkStation{}).
		Where("current_order_id = ?", orderID).
		Count(&count).Error
	return count, translate(err)
}

// CountByStatus 按状态统计订单数
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.ProductionOrder{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[string]int64, len(rows))
	for _, v := range rows {
		counts[v.Status] = v.Total
	}
	return counts, nil
}
