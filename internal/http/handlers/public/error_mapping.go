package public

import (
	"errors"

	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var couponEvaluateErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, key: "error.coupon_not_started"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, key: "error.coupon_usage_limit"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, key: "error.coupon_min_amount"},
}

var shippingQuoteErrorRules = []mappedHandlerError{
	{target: service.ErrShippingCityRequired, code: response.CodeBadRequest, key: "error.shipping_city_required"},
	{target: service.ErrShippingZoneInvalid, code: response.CodeBadRequest, key: "error.shipping_zone_invalid"},
}

var orderCreateExtraErrorRules = []mappedHandlerError{
	{target: service.ErrOrderEmptyItems, code: response.CodeBadRequest, key: "error.order_empty_items"},
}

func respondCouponEvaluateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, couponEvaluateErrorRules, response.CodeInternal, "error.internal")
}

func respondShippingQuoteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, shippingQuoteErrorRules, response.CodeInternal, "error.internal")
}

func respondOrderCreateError(c *gin.Context, err error) {
	rules := concatMappedHandlerErrors(couponEvaluateErrorRules, shippingQuoteErrorRules, orderCreateExtraErrorRules)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
}
