package repository

import (
	"context"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"gorm.io/gorm"
)

// StationRepository 工位仓库
type StationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

// FindByID 根据ID查找工位
func (r *StationRepository) FindByID(ctx context.Context, id uint) (*entity.WorkStation, error) {
	var station entity.WorkStation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&station).Error
	if err != nil {
		return nil, translate(err)
	}
	return &station, nil
}

// FindAll 查询工位列表，可按状态过滤，按ID升序
func (r *StationRepository) FindAll(ctx context.Context, status string) ([]entity.WorkStation, error) {
	var stations []entity.WorkStation
	query := r.db.WithContext(ctx).Model(&entity.WorkStation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id ASC").Find(&stations).Error
	return stations, translate(err)
}

// Create 创建工位。name 唯一索引冲突映射为 ErrDuplicate。
func (r *StationRepository) Create(ctx context.Context, station *entity.WorkStation) error {
	return translate(r.db.WithContext(ctx).Create(station).Error)
}

// Update 保存工位。Save 不写 NULL 字段，释放订单用 Updates map。
func (r *StationRepository) Update(ctx context.Context, station *entity.WorkStation) error {
	res := r.db.WithContext(ctx).Model(station).
		Select("name", "location", "status", "current_order_id").
		Updates(map[string]interface{}{
			"name":             station.Name,
			"location":         station.Location,
			"status":           station.Status,
			"current_order_id": station.CurrentOrderID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	// 工位在查找和更新之间被删除
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除工位
func (r *StationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.WorkStation{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByName 统计使用指定名称的工位数，可排除某个ID（更新场景）。
func (r *StationRepository) CountByName(ctx context.Context, name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.WorkStation{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, translate(err)
}

// CountByStatus 按状态统计工位数
func (r *StationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.WorkStation{}).
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
