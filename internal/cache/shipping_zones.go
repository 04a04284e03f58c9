package cache

import (
	"context"
	"time"

	"github.com/atelier-next/internal/models"
)

const shippingZonesKey = "shipping:zones:active"

// GetActiveShippingZones 获取启用区域列表缓存
func GetActiveShippingZones(ctx context.Context) ([]models.ShippingZone, bool, error) {
	var zones []models.ShippingZone
	hit, err := GetJSON(ctx, shippingZonesKey, &zones)
	if err != nil || !hit {
		return nil, hit, err
	}
	return zones, true, nil
}

// SetActiveShippingZones 写入启用区域列表缓存
func SetActiveShippingZones(ctx context.Context, zones []models.ShippingZone, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, shippingZonesKey, zones, ttl)
}

// DelActiveShippingZones 删除启用区域列表缓存（区域配置变更后调用）
func DelActiveShippingZones(ctx context.Context) error {
	return Del(ctx, shippingZonesKey)
}
