package service

import "errors"

// 业务错误定义。handler 层通过 errors.Is 映射为响应码与国际化文案。
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")

	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponInactive   = errors.New("coupon inactive")
	ErrCouponNotStarted = errors.New("coupon not started")
	ErrCouponExpired    = errors.New("coupon expired")
	ErrCouponUsageLimit = errors.New("coupon usage limit reached")
	ErrCouponMinAmount  = errors.New("coupon min amount not met")
	ErrCouponInvalid    = errors.New("coupon invalid")
	ErrCouponCodeExists = errors.New("coupon code exists")

	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrOrderStatusBlocked = errors.New("order status transition not allowed")
	ErrOrderEmptyItems    = errors.New("order has no items")

	ErrShippingCityRequired = errors.New("shipping city required")
	ErrShippingZoneInvalid  = errors.New("shipping zone invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
