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

func newOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.ShippingZone{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	// CreateOrder 的事务走包级 DB
	models.DB = db
	return db
}

func newOrderTestService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Shipping.DefaultFee = "12"

	couponRepo := repository.NewCouponRepository(db)
	zoneRepo := repository.NewShippingZoneRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	return NewOrderService(
		repository.NewOrderRepository(db),
		couponRepo,
		repository.NewCouponUsageRepository(db),
		settingRepo,
		NewCouponService(couponRepo),
		NewShippingService(cfg, zoneRepo, settingRepo),
		nil,
	)
}

func seedOrderTestZone(t *testing.T, db *gorm.DB) {
	t.Helper()
	zone := models.ShippingZone{
		Name:     "江浙沪",
		Cities:   `["上海","杭州"]`,
		Fee:      models.NewMoneyFromDecimal(decimal.NewFromInt(6)),
		FreeOver: models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		IsActive: true,
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}
}

func TestCreateOrderTotalsAndInitialHistory(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	if err := db.Create(&models.Coupon{
		Code:     "FIX10",
		Type:     constants.CouponTypeFixedAmount,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive: true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "Buyer@Example.COM",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 2},
		},
		CouponCode: "fix10",
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}

	order := detail.Order
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.Email != "buyer@example.com" {
		t.Fatalf("expected lowercased email, got %s", order.Email)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected subtotal 60, got %s", order.Subtotal.String())
	}
	if !order.DiscountAmount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected discount 10, got %s", order.DiscountAmount.String())
	}
	if !order.ShippingFee.Decimal.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected shipping fee 6, got %s", order.ShippingFee.String())
	}
	// 应付 = 小计 - 优惠 + 运费
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(56)) {
		t.Fatalf("expected total 56, got %s", order.TotalAmount.String())
	}
	if order.CouponID == nil || order.CouponCode != "FIX10" {
		t.Fatalf("expected coupon snapshot, got %+v", order)
	}

	if len(detail.StatusHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(detail.StatusHistory))
	}
	if detail.StatusHistory[0].Status != constants.OrderStatusPending || detail.StatusHistory[0].ChangedBy != "system" {
		t.Fatalf("unexpected initial history: %+v", detail.StatusHistory[0])
	}

	var usage models.CouponUsage
	if err := db.Where("order_id = ?", order.ID).First(&usage).Error; err != nil {
		t.Fatalf("expected coupon usage record: %v", err)
	}
	var coupon models.Coupon
	if err := db.Where("code = ?", "FIX10").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if coupon.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", coupon.UsedCount)
	}
}

func TestCreateOrderFreeShipping(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)

	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "杭州",
		Items: []CreateOrderItem{
			{Name: "茶壶", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(99)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if !detail.Order.ShippingFee.Decimal.IsZero() {
		t.Fatalf("expected free shipping at threshold, got %s", detail.Order.ShippingFee.String())
	}
	if !detail.Order.TotalAmount.Decimal.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("expected total 99, got %s", detail.Order.TotalAmount.String())
	}
}

func TestCreateOrderCouponUsageLimitExhausted(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	if err := db.Create(&models.Coupon{
		Code:       "ONCE",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		UsageLimit: 1,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newOrderTestService(t, db)
	input := CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "杯垫", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(20)), Quantity: 1},
		},
		CouponCode: "ONCE",
	}

	if _, err := svc.CreateOrder(context.Background(), input); err != nil {
		t.Fatalf("first order error: %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), input); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got: %v", err)
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	db := newOrderTestDB(t)
	svc := newOrderTestService(t, db)

	if _, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
	}); !errors.Is(err, ErrOrderEmptyItems) {
		t.Fatalf("expected empty items error, got: %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), Quantity: 0},
		},
	}); !errors.Is(err, ErrOrderEmptyItems) {
		t.Fatalf("expected empty items error for zero quantity, got: %v", err)
	}
}

func TestUpdateOrderStatusAppendsHistory(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	orderID := detail.Order.ID

	updated, err := svc.UpdateOrderStatus(orderID, UpdateOrderStatusInput{
		Status:    "confirmed",
		Note:      "已联系买家",
		ChangedBy: "admin:1",
	})
	if err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if updated.Order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Order.Status)
	}
	// 最新历史在前，且与订单当前状态一致
	if len(updated.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.StatusHistory))
	}
	latest := updated.StatusHistory[0]
	if latest.Status != updated.Order.Status || latest.ChangedBy != "admin:1" || latest.Note != "已联系买家" {
		t.Fatalf("unexpected latest history: %+v", latest)
	}

	// 同状态更新是幂等的，不追加历史
	again, err := svc.UpdateOrderStatus(orderID, UpdateOrderStatusInput{Status: "confirmed"})
	if err != nil {
		t.Fatalf("repeat update error: %v", err)
	}
	if len(again.StatusHistory) != 2 {
		t.Fatalf("expected history unchanged, got %d", len(again.StatusHistory))
	}
}

func TestUpdateOrderStatusRejectsInvalidTransitions(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	orderID := detail.Order.ID

	if _, err := svc.UpdateOrderStatus(orderID, UpdateOrderStatusInput{Status: "shipped"}); !errors.Is(err, ErrOrderStatusBlocked) {
		t.Fatalf("expected blocked transition error, got: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(orderID, UpdateOrderStatusInput{Status: "archived"}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid status error, got: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(9999, UpdateOrderStatusInput{Status: "confirmed"}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found error, got: %v", err)
	}

	var count int64
	if err := db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rejected updates to leave history untouched, got %d", count)
	}
}

func TestUpdateOrderInternalNoteOnly(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}

	note := "客户要求周末配送"
	updated, err := svc.UpdateOrderStatus(detail.Order.ID, UpdateOrderStatusInput{InternalNote: &note})
	if err != nil {
		t.Fatalf("update internal note error: %v", err)
	}
	if updated.Order.InternalNote != note {
		t.Fatalf("expected internal note updated, got %q", updated.Order.InternalNote)
	}
	if updated.Order.Status != constants.OrderStatusPending {
		t.Fatalf("expected status unchanged, got %s", updated.Order.Status)
	}
	if len(updated.StatusHistory) != 1 {
		t.Fatalf("note-only update must not append history, got %d entries", len(updated.StatusHistory))
	}
}

func TestCancelOrderReleasesCouponUsage(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	if err := db.Create(&models.Coupon{
		Code:       "ONCE",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		UsageLimit: 1,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
		},
		CouponCode: "ONCE",
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}

	cancelled, err := svc.UpdateOrderStatus(detail.Order.ID, UpdateOrderStatusInput{
		Status:    "cancelled",
		ChangedBy: "admin:1",
	})
	if err != nil {
		t.Fatalf("cancel order error: %v", err)
	}
	if cancelled.Order.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	var coupon models.Coupon
	if err := db.Where("code = ?", "ONCE").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if coupon.UsedCount != 0 {
		t.Fatalf("expected usage released after cancel, got used_count %d", coupon.UsedCount)
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("order_id = ?", detail.Order.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 0 {
		t.Fatalf("expected usage record removed after cancel, got %d", usageCount)
	}
}

func TestTrackOrderRequiresMatchingEmail(t *testing.T) {
	db := newOrderTestDB(t)
	seedOrderTestZone(t, db)
	svc := newOrderTestService(t, db)

	detail, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Email: "buyer@example.com",
		City:  "上海",
		Items: []CreateOrderItem{
			{Name: "茶杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	orderNo := detail.Order.OrderNo

	tracked, err := svc.TrackOrder(orderNo, "Buyer@Example.COM")
	if err != nil {
		t.Fatalf("track order error: %v", err)
	}
	if tracked.Order.ID != detail.Order.ID {
		t.Fatalf("expected same order, got %d", tracked.Order.ID)
	}

	// 邮箱不匹配与订单不存在返回同一个错误，避免探测订单号
	if _, err := svc.TrackOrder(orderNo, "other@example.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for wrong email, got: %v", err)
	}
	if _, err := svc.TrackOrder("AT00000000000000000000", "buyer@example.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for unknown order no, got: %v", err)
	}
}
