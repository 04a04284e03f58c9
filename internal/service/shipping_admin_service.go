package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atelier-next/internal/cache"
	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"
)

// ShippingAdminService 运费区域管理服务
type ShippingAdminService struct {
	zoneRepo    repository.ShippingZoneRepository
	settingRepo repository.SettingRepository
}

// NewShippingAdminService 创建运费区域管理服务
func NewShippingAdminService(zoneRepo repository.ShippingZoneRepository, settingRepo repository.SettingRepository) *ShippingAdminService {
	return &ShippingAdminService{
		zoneRepo:    zoneRepo,
		settingRepo: settingRepo,
	}
}

// ShippingZoneInput 区域配置输入
type ShippingZoneInput struct {
	Name     string
	Cities   []string
	Fee      models.Money
	FreeOver models.Money
	IsActive *bool
}

// ListZones 获取区域配置，city 非空时只返回覆盖该城市的区域
func (s *ShippingAdminService) ListZones(city string) ([]models.ShippingZone, error) {
	zones, _, err := s.zoneRepo.List(repository.ShippingZoneListFilter{
		City: strings.TrimSpace(city),
	})
	return zones, err
}

// ReplaceZones 全量替换区域配置。
// 后台保存走整表覆盖：先删全部再重建，保存成功后失效区域缓存。
func (s *ShippingAdminService) ReplaceZones(ctx context.Context, inputs []ShippingZoneInput) ([]models.ShippingZone, error) {
	zones := make([]models.ShippingZone, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, ErrShippingZoneInvalid
		}
		if input.Fee.Decimal.IsNegative() || input.FreeOver.Decimal.IsNegative() {
			return nil, ErrShippingZoneInvalid
		}

		cities := make([]string, 0, len(input.Cities))
		for _, city := range input.Cities {
			trimmed := strings.TrimSpace(city)
			if trimmed == "" {
				continue
			}
			cities = append(cities, trimmed)
		}
		if len(cities) == 0 {
			return nil, ErrShippingZoneInvalid
		}
		payload, err := json.Marshal(cities)
		if err != nil {
			return nil, ErrShippingZoneInvalid
		}

		isActive := true
		if input.IsActive != nil {
			isActive = *input.IsActive
		}

		zones = append(zones, models.ShippingZone{
			Name:     name,
			Cities:   string(payload),
			Fee:      input.Fee,
			FreeOver: input.FreeOver,
			IsActive: isActive,
		})
	}

	if err := s.zoneRepo.ReplaceAll(zones); err != nil {
		return nil, err
	}
	_ = cache.DelActiveShippingZones(ctx)

	return s.ListZones("")
}

// UpdateDefaultFee 更新全国统一运费
func (s *ShippingAdminService) UpdateDefaultFee(fee models.Money) error {
	if fee.Decimal.IsNegative() {
		return ErrShippingZoneInvalid
	}
	_, err := s.settingRepo.Upsert(constants.SettingKeyShippingConfig, models.JSON{
		"default_fee": fee.String(),
	})
	return err
}

// GetDefaultFee 查询全国统一运费设置，未配置返回 nil
func (s *ShippingAdminService) GetDefaultFee() (*models.Money, error) {
	setting, err := s.settingRepo.GetByKey(constants.SettingKeyShippingConfig)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	raw, ok := setting.ValueJSON["default_fee"]
	if !ok {
		return nil, nil
	}
	text, ok := raw.(string)
	if !ok {
		return nil, nil
	}
	fee, err := models.NewMoneyFromString(text)
	if err != nil {
		return nil, nil
	}
	return &fee, nil
}
