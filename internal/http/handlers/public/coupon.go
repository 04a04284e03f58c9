package public

import (
	"errors"

	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/i18n"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest 优惠码试算请求
type ValidateCouponRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal string `json:"subtotal" binding:"required"`
}

// ValidateCouponResponse 优惠码试算响应
type ValidateCouponResponse struct {
	Valid          bool         `json:"valid"`
	Code           string       `json:"code"`
	Type           string       `json:"type"`
	DiscountAmount models.Money `json:"discount_amount"`
	PayableAmount  models.Money `json:"payable_amount"` // 小计减优惠，不含运费
}

// ValidateCoupon 优惠码试算。只读操作，不占用使用次数。
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	subtotal, err := models.NewMoneyFromString(req.Subtotal)
	if err != nil || subtotal.IsNegative() {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	discount, coupon, err := h.CouponService.Evaluate(req.Code, subtotal)
	if err != nil {
		// 未达门槛时提示具体门槛金额
		if errors.Is(err, service.ErrCouponMinAmount) && coupon != nil {
			locale := i18n.ResolveLocale(c)
			msg := i18n.Sprintf(locale, "error.coupon_min_amount_detail", coupon.MinAmount.String())
			respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return
		}
		respondCouponEvaluateError(c, err)
		return
	}

	response.Success(c, ValidateCouponResponse{
		Valid:          true,
		Code:           coupon.Code,
		Type:           coupon.Type,
		DiscountAmount: discount,
		PayableAmount:  models.NewMoneyFromDecimal(subtotal.Sub(discount.Decimal)),
	})
}
