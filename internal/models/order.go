package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	Email          string         `gorm:"index" json:"email,omitempty"`                                 // 下单邮箱
	City           string         `gorm:"type:varchar(120)" json:"city"`                                // 收货城市
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	InternalNote   string         `gorm:"type:text" json:"-"`                                           // 内部备注（仅后台可见）
	Currency       string         `gorm:"not null" json:"currency"`                                     // 币种
	Subtotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	ShippingFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`    // 运费
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付金额
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode     string         `gorm:"index" json:"coupon_code,omitempty"`                           // 优惠码快照
	ShippingZone   string         `json:"shipping_zone,omitempty"`                                      // 命中的运费区域名称
	ClientIP       string         `gorm:"type:varchar(64)" json:"-"`                                    // 下单客户端IP（仅后台可见）
	Locale         string         `gorm:"type:varchar(16)" json:"-"`                                    // 下单语言（用于邮件通知）
	CancelledAt    *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	// 关联
	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`          // 订单项
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"` // 状态变更历史（倒序展示）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
