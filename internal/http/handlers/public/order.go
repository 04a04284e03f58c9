package public

import (
	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/i18n"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Email      string             `json:"email" binding:"required,email"`
	City       string             `json:"city" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required"`
	CouponCode string             `json:"coupon_code"`
}

// CreateOrder 创建订单。金额计算、优惠核销与初始状态历史在同一事务内完成。
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := models.NewMoneyFromString(item.UnitPrice)
		if err != nil || unitPrice.IsNegative() || item.Quantity <= 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		items = append(items, service.CreateOrderItem{
			Name:      item.Name,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		})
	}

	detail, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		Email:      req.Email,
		City:       req.City,
		Items:      items,
		CouponCode: req.CouponCode,
		ClientIP:   c.ClientIP(),
		Locale:     i18n.ResolveLocale(c),
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, detail)
}

// TrackOrder 按订单号查单，邮箱不匹配时按不存在处理
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := c.Param("order_no")
	email := c.Query("email")

	detail, err := h.OrderService.TrackOrder(orderNo, email)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, detail)
}
