package service

import (
	"strings"

	"github.com/atelier-next/internal/constants"
)

// orderStatuses 全部合法订单状态
var orderStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusConfirmed:  true,
	constants.OrderStatusProcessing: true,
	constants.OrderStatusShipped:    true,
	constants.OrderStatusDelivered:  true,
	constants.OrderStatusCancelled:  true,
	constants.OrderStatusReturned:   true,
}

// allowedTransitions 显式状态迁移表。
// 取消可从任意未终结状态发起；已送达订单只能走退货。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusReturned:  true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusReturned: true,
	},
}

// NormalizeOrderStatus 归一化状态标识
func NormalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsValidOrderStatus 判断状态是否在枚举内
func IsValidOrderStatus(status string) bool {
	return orderStatuses[NormalizeOrderStatus(status)]
}

// CanTransitionOrderStatus 判断迁移是否被允许
func CanTransitionOrderStatus(from, to string) bool {
	targets, ok := allowedTransitions[NormalizeOrderStatus(from)]
	if !ok {
		return false
	}
	return targets[NormalizeOrderStatus(to)]
}
