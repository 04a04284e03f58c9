package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingZone 运费区域
type ShippingZone struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Name      string         `gorm:"not null" json:"name"`                                  // 区域名称
	Cities    string         `gorm:"type:text" json:"cities"`                               // 城市集合（JSON数组）
	Fee       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"fee"`      // 区域运费
	FreeOver  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"free_over"` // 包邮门槛（0 表示不包邮）
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`                // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                               // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (ShippingZone) TableName() string {
	return "shipping_zones"
}
