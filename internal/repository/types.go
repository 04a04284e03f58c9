package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	OrderNo     string
	Email       string
	City        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ShippingZoneListFilter 查询运费区域列表的过滤条件
type ShippingZoneListFilter struct {
	Page       int
	PageSize   int
	Search     string
	City       string
	IsActive   *bool
	ActiveOnly bool
}
