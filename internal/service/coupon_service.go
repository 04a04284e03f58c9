package service

import (
	"strings"
	"time"

	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// NormalizeCouponCode 归一化优惠码（去空格并统一大写）
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate 校验优惠码并计算折扣金额。
// 只读操作，不占用使用额度；额度在订单落库时原子扣减。
// 校验按固定顺序短路，每种失败原因对应独立的业务错误。
func (s *CouponService) Evaluate(code string, subtotal models.Money) (models.Money, *models.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return models.Money{}, nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		return models.Money{}, nil, err
	}
	if coupon == nil {
		return models.Money{}, nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return models.Money{}, coupon, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return models.Money{}, coupon, ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return models.Money{}, coupon, ErrCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return models.Money{}, coupon, ErrCouponUsageLimit
	}

	if coupon.MinAmount.Decimal.GreaterThan(decimal.Zero) && subtotal.Decimal.LessThan(coupon.MinAmount.Decimal) {
		return models.Money{}, coupon, ErrCouponMinAmount
	}

	discount, err := s.calculateDiscount(coupon, subtotal)
	if err != nil {
		return models.Money{}, coupon, err
	}

	// 折扣不得超过小计，否则会出现负应付金额
	if discount.Decimal.GreaterThan(subtotal.Decimal) {
		discount = models.NewMoneyFromDecimal(subtotal.Decimal)
	}

	return discount, coupon, nil
}

func (s *CouponService) calculateDiscount(coupon *models.Coupon, subtotal models.Money) (models.Money, error) {
	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypeFixedAmount:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrCouponInvalid
		}
		return models.NewMoneyFromDecimal(coupon.Value.Decimal), nil
	case constants.CouponTypePercentage:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrCouponInvalid
		}
		percent := coupon.Value.Decimal.Div(decimal.NewFromInt(100))
		discount := subtotal.Decimal.Mul(percent)
		// 最大优惠金额只约束百分比券
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
		return models.NewMoneyFromDecimal(discount), nil
	default:
		return models.Money{}, ErrCouponInvalid
	}
}
