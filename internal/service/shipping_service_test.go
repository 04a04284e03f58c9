package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atelier-next/internal/config"
	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newShippingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:shipping_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ShippingZone{}, &models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newShippingTestService(t *testing.T, db *gorm.DB, defaultFee string) *ShippingService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Shipping.DefaultFee = defaultFee
	return NewShippingService(cfg, repository.NewShippingZoneRepository(db), repository.NewSettingRepository(db))
}

func TestQuoteZoneMatch(t *testing.T) {
	db := newShippingTestDB(t)
	zone := models.ShippingZone{
		Name:     "江浙沪",
		Cities:   `["上海","杭州","苏州"]`,
		Fee:      models.NewMoneyFromDecimal(decimal.NewFromInt(6)),
		FreeOver: models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		IsActive: true,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	svc := newShippingTestService(t, db, "12")

	quote, err := svc.Quote(context.Background(), "杭州", models.NewMoneyFromDecimal(decimal.NewFromInt(50)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.ZoneName != "江浙沪" {
		t.Fatalf("expected zone 江浙沪, got %s", quote.ZoneName)
	}
	if !quote.Fee.Decimal.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected fee 6, got %s", quote.Fee.String())
	}
	if quote.FreeShipping {
		t.Fatalf("expected no free shipping below threshold")
	}
	if quote.FreeOver == nil || !quote.FreeOver.Decimal.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("expected free_over 99, got %+v", quote.FreeOver)
	}
}

func TestQuoteFreeShippingBoundary(t *testing.T) {
	db := newShippingTestDB(t)
	zone := models.ShippingZone{
		Name:     "华北",
		Cities:   `["北京","天津"]`,
		Fee:      models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
		FreeOver: models.NewMoneyFromDecimal(decimal.NewFromInt(129)),
		IsActive: true,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	svc := newShippingTestService(t, db, "12")

	// 小计恰好等于门槛时触发包邮
	quote, err := svc.Quote(context.Background(), "北京", models.NewMoneyFromDecimal(decimal.NewFromInt(129)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if !quote.FreeShipping {
		t.Fatalf("expected free shipping at threshold")
	}
	if !quote.Fee.Decimal.IsZero() {
		t.Fatalf("expected zero fee, got %s", quote.Fee.String())
	}

	quote, err = svc.Quote(context.Background(), "北京", models.NewMoneyFromDecimal(decimal.NewFromFloat(128.99)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.FreeShipping {
		t.Fatalf("expected no free shipping below threshold")
	}
}

func TestQuoteNationwideFallback(t *testing.T) {
	db := newShippingTestDB(t)
	svc := newShippingTestService(t, db, "12.50")

	quote, err := svc.Quote(context.Background(), "拉萨", models.NewMoneyFromDecimal(decimal.NewFromInt(500)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.ZoneName != constants.ShippingZoneNationwide {
		t.Fatalf("expected nationwide fallback, got %s", quote.ZoneName)
	}
	if !quote.Fee.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Fatalf("expected config default fee 12.50, got %s", quote.Fee.String())
	}
	if quote.FreeShipping {
		t.Fatalf("nationwide fallback must not be free shipping")
	}
}

func TestQuoteDefaultFeePrefersSetting(t *testing.T) {
	db := newShippingTestDB(t)
	setting := models.Setting{
		Key:       constants.SettingKeyShippingConfig,
		ValueJSON: models.JSON{"default_fee": "20.00"},
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("create setting failed: %v", err)
	}

	svc := newShippingTestService(t, db, "12")

	quote, err := svc.Quote(context.Background(), "乌鲁木齐", models.NewMoneyFromDecimal(decimal.NewFromInt(50)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if !quote.Fee.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected setting default fee 20, got %s", quote.Fee.String())
	}
}

func TestQuoteMalformedCitiesFallsBackToSubstring(t *testing.T) {
	db := newShippingTestDB(t)
	zone := models.ShippingZone{
		Name:     "脏数据区",
		Cities:   "广州,深圳",
		Fee:      models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
		IsActive: true,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	svc := newShippingTestService(t, db, "12")

	quote, err := svc.Quote(context.Background(), "深圳", models.NewMoneyFromDecimal(decimal.NewFromInt(50)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.ZoneName != "脏数据区" {
		t.Fatalf("expected substring fallback to match, got %s", quote.ZoneName)
	}
}

func TestQuoteSkipsInactiveZones(t *testing.T) {
	db := newShippingTestDB(t)
	zone := models.ShippingZone{
		Name:     "停用区",
		Cities:   `["上海"]`,
		Fee:      models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
		IsActive: false,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	svc := newShippingTestService(t, db, "12")

	quote, err := svc.Quote(context.Background(), "上海", models.NewMoneyFromDecimal(decimal.NewFromInt(50)))
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.ZoneName != constants.ShippingZoneNationwide {
		t.Fatalf("expected inactive zone to be skipped, got %s", quote.ZoneName)
	}
}

func TestQuoteCityRequired(t *testing.T) {
	db := newShippingTestDB(t)
	svc := newShippingTestService(t, db, "12")

	if _, err := svc.Quote(context.Background(), "   ", models.NewMoneyFromDecimal(decimal.NewFromInt(50))); !errors.Is(err, ErrShippingCityRequired) {
		t.Fatalf("expected city required error, got: %v", err)
	}
	if _, err := svc.Quote(context.Background(), "上海", models.NewMoneyFromDecimal(decimal.NewFromInt(-1))); !errors.Is(err, ErrShippingZoneInvalid) {
		t.Fatalf("expected invalid error for negative subtotal, got: %v", err)
	}
}
