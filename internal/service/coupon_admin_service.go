package service

import (
	"strings"
	"time"

	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo      repository.CouponRepository
	usageRepo repository.CouponUsageRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponAdminService {
	return &CouponAdminService{
		repo:      repo,
		usageRepo: usageRepo,
	}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code        string
	Type        string
	Value       models.Money
	MinAmount   models.Money
	MaxDiscount models.Money
	UsageLimit  int
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsActive    *bool
}

func validateCouponInput(input CouponInput) (code, couponType string, err error) {
	code = NormalizeCouponCode(input.Code)
	if code == "" {
		return "", "", ErrCouponInvalid
	}
	couponType = strings.ToLower(strings.TrimSpace(input.Type))
	if couponType != constants.CouponTypeFixedAmount && couponType != constants.CouponTypePercentage {
		return "", "", ErrCouponInvalid
	}
	if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
		return "", "", ErrCouponInvalid
	}
	if couponType == constants.CouponTypePercentage && input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
		return "", "", ErrCouponInvalid
	}
	if input.MinAmount.Decimal.IsNegative() || input.MaxDiscount.Decimal.IsNegative() {
		return "", "", ErrCouponInvalid
	}
	if input.UsageLimit < 0 {
		return "", "", ErrCouponInvalid
	}
	// 创建时要求失效时间严格晚于生效时间
	if input.StartsAt != nil && input.EndsAt != nil && !input.EndsAt.After(*input.StartsAt) {
		return "", "", ErrCouponInvalid
	}
	return code, couponType, nil
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	code, couponType, err := validateCouponInput(input)
	if err != nil {
		return nil, err
	}

	exist, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	coupon := &models.Coupon{
		Code:        code,
		Type:        couponType,
		Value:       input.Value,
		MinAmount:   input.MinAmount,
		MaxDiscount: input.MaxDiscount,
		UsageLimit:  input.UsageLimit,
		UsedCount:   0,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		IsActive:    isActive,
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}

	code, couponType, err := validateCouponInput(input)
	if err != nil {
		return nil, err
	}

	if code != existing.Code {
		dup, err := s.repo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrCouponCodeExists
		}
	}

	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	existing.Code = code
	existing.Type = couponType
	existing.Value = input.Value
	existing.MinAmount = input.MinAmount
	existing.MaxDiscount = input.MaxDiscount
	existing.UsageLimit = input.UsageLimit
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt
	existing.IsActive = isActive

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取优惠券详情
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List 获取优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// ListUsages 获取优惠券使用记录
func (s *CouponAdminService) ListUsages(couponID uint, page, pageSize int) ([]models.CouponUsage, int64, error) {
	if couponID == 0 {
		return nil, 0, ErrCouponInvalid
	}
	coupon, err := s.repo.GetByID(couponID)
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil {
		return nil, 0, ErrCouponNotFound
	}
	return s.usageRepo.ListByCoupon(repository.CouponUsageListFilter{
		CouponID: couponID,
		Page:     page,
		PageSize: pageSize,
	})
}
