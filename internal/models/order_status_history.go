package models

import "time"

// OrderStatusHistory 订单状态变更历史（只追加，不修改不删除）
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"` // 订单ID
	Status    string    `gorm:"not null" json:"status"`         // 变更后的状态
	Note      string    `gorm:"type:text" json:"note"`          // 对外备注
	ChangedBy string    `gorm:"not null" json:"changed_by"`     // 操作人
	CreatedAt time.Time `gorm:"index" json:"created_at"`        // 变更时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
