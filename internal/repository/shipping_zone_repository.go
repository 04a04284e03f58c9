package repository

import (
	"errors"

	"github.com/atelier-next/internal/models"

	"gorm.io/gorm"
)

// ShippingZoneRepository 运费区域数据访问接口
type ShippingZoneRepository interface {
	GetByID(id uint) (*models.ShippingZone, error)
	ListActive() ([]models.ShippingZone, error)
	List(filter ShippingZoneListFilter) ([]models.ShippingZone, int64, error)
	ReplaceAll(zones []models.ShippingZone) error
	WithTx(tx *gorm.DB) *GormShippingZoneRepository
}

// GormShippingZoneRepository GORM 实现
type GormShippingZoneRepository struct {
	db *gorm.DB
}

// NewShippingZoneRepository 创建运费区域仓库
func NewShippingZoneRepository(db *gorm.DB) *GormShippingZoneRepository {
	return &GormShippingZoneRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingZoneRepository) WithTx(tx *gorm.DB) *GormShippingZoneRepository {
	if tx == nil {
		return r
	}
	return &GormShippingZoneRepository{db: tx}
}

// GetByID 根据 ID 获取区域
func (r *GormShippingZoneRepository) GetByID(id uint) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	if err := r.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// ListActive 获取启用区域列表。
// 按运费升序、ID 升序排序，保证“首个命中”结果可复现。
func (r *GormShippingZoneRepository) ListActive() ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	if err := r.db.Where("is_active = ?", true).
		Order("fee asc").
		Order("id asc").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// List 获取区域列表
func (r *GormShippingZoneRepository) List(filter ShippingZoneListFilter) ([]models.ShippingZone, int64, error) {
	query := r.db.Model(&models.ShippingZone{})

	if filter.Search != "" {
		query = query.Where(likeExpr(r.db, "name"), "%"+filter.Search+"%")
	}
	if filter.City != "" {
		query = query.Where(jsonArrayContainsExpr(r.db, "cities"), filter.City)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var zones []models.ShippingZone
	if err := query.Order("fee asc").Order("id asc").Find(&zones).Error; err != nil {
		return nil, 0, err
	}
	return zones, total, nil
}

// ReplaceAll 全量替换区域配置（后台保存为整表覆盖而非增量修改）
func (r *GormShippingZoneRepository) ReplaceAll(zones []models.ShippingZone) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ShippingZone{}).Error; err != nil {
			return err
		}
		if len(zones) == 0 {
			return nil
		}
		return tx.Create(&zones).Error
	})
}
