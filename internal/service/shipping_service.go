package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/atelier-next/internal/cache"
	"github.com/atelier-next/internal/config"
	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ShippingService 运费服务
type ShippingService struct {
	cfg         *config.Config
	zoneRepo    repository.ShippingZoneRepository
	settingRepo repository.SettingRepository
}

// NewShippingService 创建运费服务
func NewShippingService(cfg *config.Config, zoneRepo repository.ShippingZoneRepository, settingRepo repository.SettingRepository) *ShippingService {
	return &ShippingService{
		cfg:         cfg,
		zoneRepo:    zoneRepo,
		settingRepo: settingRepo,
	}
}

// ShippingQuote 运费报价
type ShippingQuote struct {
	Fee          models.Money  `json:"fee"`                 // 应付运费
	ZoneName     string        `json:"zone_name"`           // 命中的区域名称
	FreeShipping bool          `json:"free_shipping"`       // 是否触发包邮
	FreeOver     *models.Money `json:"free_over,omitempty"` // 包邮门槛（区域未配置时省略）
}

// Quote 解析城市所属区域并计算运费。
// 纯读操作：命中区域按运费升序取第一个，未命中回退全国统一运费。
func (s *ShippingService) Quote(ctx context.Context, city string, subtotal models.Money) (*ShippingQuote, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return nil, ErrShippingCityRequired
	}
	if subtotal.Decimal.IsNegative() {
		return nil, ErrShippingZoneInvalid
	}

	zones, err := s.loadActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	for i := range zones {
		zone := &zones[i]
		if !zoneMatchesCity(zone, trimmed) {
			continue
		}
		return buildZoneQuote(zone, subtotal), nil
	}

	// 未命中任何区域：全国统一运费，不参与包邮
	return &ShippingQuote{
		Fee:          s.resolveDefaultFee(),
		ZoneName:     constants.ShippingZoneNationwide,
		FreeShipping: false,
	}, nil
}

func buildZoneQuote(zone *models.ShippingZone, subtotal models.Money) *ShippingQuote {
	freeShipping := zone.FreeOver.Decimal.GreaterThan(decimal.Zero) &&
		subtotal.Decimal.GreaterThanOrEqual(zone.FreeOver.Decimal)

	fee := zone.Fee
	if freeShipping {
		fee = models.NewMoneyFromDecimal(decimal.Zero)
	}

	quote := &ShippingQuote{
		Fee:          fee,
		ZoneName:     zone.Name,
		FreeShipping: freeShipping,
	}
	if zone.FreeOver.Decimal.GreaterThan(decimal.Zero) {
		freeOver := zone.FreeOver
		quote.FreeOver = &freeOver
	}
	return quote
}

// zoneMatchesCity 判断城市是否属于区域。
// 城市集合存储为 JSON 数组；解析失败时退化为对原始文本做子串匹配，
// 容忍历史脏数据而不是直接拒绝整个区域。
func zoneMatchesCity(zone *models.ShippingZone, city string) bool {
	raw := strings.TrimSpace(zone.Cities)
	if raw == "" {
		return false
	}

	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		return strings.Contains(strings.ToLower(raw), strings.ToLower(city))
	}
	for _, candidate := range cities {
		if strings.EqualFold(strings.TrimSpace(candidate), city) {
			return true
		}
	}
	return false
}

func (s *ShippingService) loadActiveZones(ctx context.Context) ([]models.ShippingZone, error) {
	if zones, hit, err := cache.GetActiveShippingZones(ctx); err == nil && hit {
		return zones, nil
	}

	zones, err := s.zoneRepo.ListActive()
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(0)
	if s.cfg != nil && s.cfg.Shipping.ZoneCacheSeconds > 0 {
		ttl = time.Duration(s.cfg.Shipping.ZoneCacheSeconds) * time.Second
	}
	if ttl > 0 {
		_ = cache.SetActiveShippingZones(ctx, zones, ttl)
	}
	return zones, nil
}

// resolveDefaultFee 解析全国统一运费：设置表优先，其次配置文件，最后零值兜底。
func (s *ShippingService) resolveDefaultFee() models.Money {
	if s.settingRepo != nil {
		setting, err := s.settingRepo.GetByKey(constants.SettingKeyShippingConfig)
		if err == nil && setting != nil {
			if raw, ok := setting.ValueJSON["default_fee"]; ok {
				if text, ok := raw.(string); ok {
					if fee, err := models.NewMoneyFromString(text); err == nil && !fee.Decimal.IsNegative() {
						return fee
					}
				}
			}
		}
	}
	if s.cfg != nil {
		if fee, err := models.NewMoneyFromString(s.cfg.Shipping.DefaultFee); err == nil && !fee.Decimal.IsNegative() {
			return fee
		}
	}
	return models.NewMoneyFromDecimal(decimal.Zero)
}
