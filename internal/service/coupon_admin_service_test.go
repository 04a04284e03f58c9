package service

import (
	"errors"
	"testing"
	"time"

	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCouponAdminCreateNormalizesCode(t *testing.T) {
	db := newCouponTestDB(t)
	svc := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))

	coupon, err := svc.Create(CouponInput{
		Code:  "  spring10 ",
		Type:  "Percentage",
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if coupon.Code != "SPRING10" {
		t.Fatalf("expected normalized code SPRING10, got %s", coupon.Code)
	}
	if coupon.Type != constants.CouponTypePercentage {
		t.Fatalf("expected normalized type, got %s", coupon.Type)
	}
	if !coupon.IsActive {
		t.Fatalf("expected coupon active by default")
	}
}

func TestCouponAdminCreateDuplicateCode(t *testing.T) {
	db := newCouponTestDB(t)
	svc := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))

	input := CouponInput{
		Code:  "DUP",
		Type:  constants.CouponTypeFixedAmount,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}
	if _, err := svc.Create(input); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := svc.Create(input); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected code exists error, got: %v", err)
	}
}

func TestCouponAdminCreateValidation(t *testing.T) {
	db := newCouponTestDB(t)
	svc := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))

	start := time.Now()
	end := start.Add(-time.Hour)

	cases := []struct {
		name  string
		input CouponInput
	}{
		{name: "blank_code", input: CouponInput{Code: " ", Type: constants.CouponTypeFixedAmount, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5))}},
		{name: "unknown_type", input: CouponInput{Code: "A", Type: "bogus", Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5))}},
		{name: "zero_value", input: CouponInput{Code: "A", Type: constants.CouponTypeFixedAmount, Value: models.NewMoneyFromDecimal(decimal.Zero)}},
		{name: "percent_over_100", input: CouponInput{Code: "A", Type: constants.CouponTypePercentage, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(120))}},
		{name: "negative_min", input: CouponInput{Code: "A", Type: constants.CouponTypeFixedAmount, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(-1))}},
		{name: "ends_before_starts", input: CouponInput{Code: "A", Type: constants.CouponTypeFixedAmount, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), StartsAt: &start, EndsAt: &end}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(tc.input); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("%s: expected invalid error, got: %v", tc.name, err)
		}
	}
}

func TestCouponAdminListUsages(t *testing.T) {
	db := newCouponTestDB(t)
	svc := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))

	coupon, err := svc.Create(CouponInput{
		Code:  "USED",
		Type:  constants.CouponTypeFixedAmount,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := db.Create(&models.CouponUsage{
			CouponID:       coupon.ID,
			CouponCode:     coupon.Code,
			OrderID:        uint(i),
			DiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		}).Error; err != nil {
			t.Fatalf("create usage failed: %v", err)
		}
	}

	usages, total, err := svc.ListUsages(coupon.ID, 1, 2)
	if err != nil {
		t.Fatalf("list usages error: %v", err)
	}
	if total != 3 || len(usages) != 2 {
		t.Fatalf("expected total 3 with 2 per page, got total %d len %d", total, len(usages))
	}

	if _, _, err := svc.ListUsages(9999, 1, 10); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found error, got: %v", err)
	}
}

func TestCouponAdminUpdateAndDelete(t *testing.T) {
	db := newCouponTestDB(t)
	svc := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))

	created, err := svc.Create(CouponInput{
		Code:  "EDIT",
		Type:  constants.CouponTypeFixedAmount,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	inactive := false
	updated, err := svc.Update(created.ID, CouponInput{
		Code:       "EDIT",
		Type:       constants.CouponTypeFixedAmount,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
		UsageLimit: 10,
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if !updated.Value.Decimal.Equal(decimal.NewFromInt(8)) || updated.UsageLimit != 10 || updated.IsActive {
		t.Fatalf("unexpected updated coupon: %+v", updated)
	}

	if _, err := svc.Update(9999, CouponInput{
		Code:  "MISSING",
		Type:  constants.CouponTypeFixedAmount,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found error, got: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found after delete, got: %v", err)
	}
}
