package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestEvaluateFixedAmountClampedToSubtotal(t *testing.T) {
	db := newCouponTestDB(t)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "FIX30",
		Type:     constants.CouponTypeFixedAmount,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		IsActive: true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))

	discount, _, err := svc.Evaluate("fix30", models.NewMoneyFromDecimal(decimal.NewFromInt(100)))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected discount 30, got %s", discount.String())
	}

	// 折扣不得超过小计
	discount, _, err = svc.Evaluate("FIX30", models.NewMoneyFromDecimal(decimal.NewFromInt(20)))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount clamped to 20, got %s", discount.String())
	}
}

func TestEvaluatePercentageWithMaxDiscountCap(t *testing.T) {
	db := newCouponTestDB(t)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:        "PCT10",
		Type:        constants.CouponTypePercentage,
		Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		IsActive:    true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))

	discount, _, err := svc.Evaluate("PCT10", models.NewMoneyFromDecimal(decimal.NewFromInt(100)))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected discount 10, got %s", discount.String())
	}

	// 超过上限时取 max_discount
	discount, _, err = svc.Evaluate("PCT10", models.NewMoneyFromDecimal(decimal.NewFromInt(500)))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !discount.Decimal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected discount capped at 15, got %s", discount.String())
	}
}

func TestEvaluateMinAmountNotReached(t *testing.T) {
	db := newCouponTestDB(t)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:      "MIN100",
		Type:      constants.CouponTypeFixedAmount,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		IsActive:  true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))

	if _, _, err := svc.Evaluate("MIN100", models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99))); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected min amount error, got: %v", err)
	}
	if _, _, err := svc.Evaluate("MIN100", models.NewMoneyFromDecimal(decimal.NewFromInt(100))); err != nil {
		t.Fatalf("expected boundary subtotal to pass, got: %v", err)
	}
}

func TestEvaluateDateWindow(t *testing.T) {
	db := newCouponTestDB(t)
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "SOON",
		Type:     constants.CouponTypeFixedAmount,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		StartsAt: &future,
		IsActive: true,
	})
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "GONE",
		Type:     constants.CouponTypeFixedAmount,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		EndsAt:   &past,
		IsActive: true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(50))

	if _, _, err := svc.Evaluate("SOON", subtotal); !errors.Is(err, ErrCouponNotStarted) {
		t.Fatalf("expected not started error, got: %v", err)
	}
	if _, _, err := svc.Evaluate("GONE", subtotal); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected expired error, got: %v", err)
	}
}

func TestEvaluateUsageLimitReached(t *testing.T) {
	db := newCouponTestDB(t)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:       "ONCE",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		UsageLimit: 1,
		UsedCount:  1,
		IsActive:   true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))

	if _, _, err := svc.Evaluate("ONCE", models.NewMoneyFromDecimal(decimal.NewFromInt(50))); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got: %v", err)
	}
}

func TestEvaluateInactiveAndUnknown(t *testing.T) {
	db := newCouponTestDB(t)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "OFF",
		Type:     constants.CouponTypeFixedAmount,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		IsActive: false,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(50))

	if _, _, err := svc.Evaluate("OFF", subtotal); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected inactive error, got: %v", err)
	}
	if _, _, err := svc.Evaluate("NOPE", subtotal); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found error, got: %v", err)
	}
	if _, _, err := svc.Evaluate("   ", subtotal); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected invalid error for blank code, got: %v", err)
	}
}

func TestEvaluateDoesNotConsumeUsage(t *testing.T) {
	db := newCouponTestDB(t)
	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:       "READ",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		UsageLimit: 3,
		IsActive:   true,
	})

	svc := NewCouponService(repository.NewCouponRepository(db))
	subtotal := models.NewMoneyFromDecimal(decimal.NewFromInt(50))

	for i := 0; i < 5; i++ {
		if _, _, err := svc.Evaluate("READ", subtotal); err != nil {
			t.Fatalf("evaluate error: %v", err)
		}
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("expected used_count unchanged, got %d", reloaded.UsedCount)
	}
}

func TestConsumeUsageBoundary(t *testing.T) {
	db := newCouponTestDB(t)
	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:       "LAST",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		UsageLimit: 1,
		IsActive:   true,
	})

	repo := repository.NewCouponRepository(db)

	ok, err := repo.ConsumeUsage(coupon.ID)
	if err != nil {
		t.Fatalf("consume usage error: %v", err)
	}
	if !ok {
		t.Fatalf("expected first consume to succeed")
	}

	ok, err = repo.ConsumeUsage(coupon.ID)
	if err != nil {
		t.Fatalf("consume usage error: %v", err)
	}
	if ok {
		t.Fatalf("expected second consume to be rejected")
	}

	if err := repo.ReleaseUsage(coupon.ID); err != nil {
		t.Fatalf("release usage error: %v", err)
	}
	ok, err = repo.ConsumeUsage(coupon.ID)
	if err != nil {
		t.Fatalf("consume usage error: %v", err)
	}
	if !ok {
		t.Fatalf("expected consume after release to succeed")
	}
}
