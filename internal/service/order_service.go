package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/logger"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/queue"
	"github.com/atelier-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// statusHistoryDisplayLimit 详情展示的状态历史条数上限
const statusHistoryDisplayLimit = 5

// OrderService 订单服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	settingRepo     repository.SettingRepository
	couponService   *CouponService
	shippingService *ShippingService
	queueClient     *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, couponRepo repository.CouponRepository, couponUsageRepo repository.CouponUsageRepository, settingRepo repository.SettingRepository, couponService *CouponService, shippingService *ShippingService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		settingRepo:     settingRepo,
		couponService:   couponService,
		shippingService: shippingService,
		queueClient:     queueClient,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	Email      string
	City       string
	Items      []CreateOrderItem
	CouponCode string
	ClientIP   string
	Locale     string
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	Name      string
	UnitPrice models.Money
	Quantity  int
}

// OrderDetail 订单详情（含最近状态历史）
type OrderDetail struct {
	Order         *models.Order               `json:"order"`
	StatusHistory []models.OrderStatusHistory `json:"status_history"`
}

// UpdateOrderStatusInput 更新订单状态输入。
// Status 为空时只更新内部备注，不追加状态历史。
type UpdateOrderStatusInput struct {
	Status       string
	Note         string
	InternalNote *string
	ChangedBy    string
}

// CreateOrder 创建订单。
// 金额构成：应付 = 小计 - 优惠 + 运费。优惠券额度在事务内原子扣减，
// 并发下不会超过 usage_limit。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderEmptyItems
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, ErrShippingCityRequired
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Quantity <= 0 || item.UnitPrice.Decimal.IsNegative() {
			return nil, ErrOrderEmptyItems
		}
		total := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(total)
		items = append(items, models.OrderItem{
			Name:       name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(total),
		})
	}
	subtotalMoney := models.NewMoneyFromDecimal(subtotal)

	quote, err := s.shippingService.Quote(ctx, city, subtotalMoney)
	if err != nil {
		return nil, err
	}

	discount := models.NewMoneyFromDecimal(decimal.Zero)
	var coupon *models.Coupon
	if strings.TrimSpace(input.CouponCode) != "" {
		discount, coupon, err = s.couponService.Evaluate(input.CouponCode, subtotalMoney)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	total := subtotal.Sub(discount.Decimal).Add(quote.Fee.Decimal)
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		City:           city,
		Status:         constants.OrderStatusPending,
		Currency:       s.resolveSiteCurrency(),
		Subtotal:       subtotalMoney,
		DiscountAmount: discount,
		ShippingFee:    quote.Fee,
		TotalAmount:    models.NewMoneyFromDecimal(total),
		ShippingZone:   quote.ZoneName,
		ClientIP:       strings.TrimSpace(input.ClientIP),
		Locale:         strings.TrimSpace(input.Locale),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
		order.CouponCode = coupon.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		if coupon != nil {
			// 额度检查与扣减必须是同一条条件更新，读后写会在并发下超卖
			ok, err := s.couponRepo.WithTx(tx).ConsumeUsage(coupon.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCouponUsageLimit
			}
		}

		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		if coupon != nil {
			usage := &models.CouponUsage{
				CouponID:       coupon.ID,
				CouponCode:     coupon.Code,
				OrderID:        order.ID,
				DiscountAmount: discount,
			}
			if err := s.couponUsageRepo.WithTx(tx).Create(usage); err != nil {
				return err
			}
		}

		return orderRepo.AppendStatusHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    constants.OrderStatusPending,
			ChangedBy: "system",
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, constants.OrderStatusPending)

	order.Items = items
	history, err := s.orderRepo.ListStatusHistory(order.ID, statusHistoryDisplayLimit)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, StatusHistory: history}, nil
}

// UpdateOrderStatus 更新订单状态并追加历史。
// 状态写入与历史追加在同一事务内完成，读者不会看到半更新状态。
func (s *OrderService) UpdateOrderStatus(orderID uint, input UpdateOrderStatusInput) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	target := NormalizeOrderStatus(input.Status)

	// 未提供状态：仅更新内部备注，不产生历史记录
	if target == "" {
		if input.InternalNote != nil {
			updates := map[string]interface{}{
				"internal_note": *input.InternalNote,
				"updated_at":    now,
			}
			if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
				return nil, err
			}
			order.InternalNote = *input.InternalNote
			order.UpdatedAt = now
		}
		return s.buildOrderDetail(order)
	}

	if !IsValidOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	if target == order.Status {
		return s.buildOrderDetail(order)
	}
	if !CanTransitionOrderStatus(order.Status, target) {
		return nil, ErrOrderStatusBlocked
	}

	changedBy := strings.TrimSpace(input.ChangedBy)
	if changedBy == "" {
		changedBy = "system"
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		updates := map[string]interface{}{
			"status":     target,
			"updated_at": now,
		}
		if input.InternalNote != nil {
			updates["internal_note"] = *input.InternalNote
		}
		if target == constants.OrderStatusCancelled {
			updates["cancelled_at"] = now
		}
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}

		if err := orderRepo.AppendStatusHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    target,
			Note:      strings.TrimSpace(input.Note),
			ChangedBy: changedBy,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// 取消订单时归还优惠券额度并移除使用记录
		if target == constants.OrderStatusCancelled && order.CouponID != nil {
			if err := s.couponRepo.WithTx(tx).ReleaseUsage(*order.CouponID); err != nil {
				return err
			}
			if err := s.couponUsageRepo.WithTx(tx).DeleteByOrderID(order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = target
	order.UpdatedAt = now
	if input.InternalNote != nil {
		order.InternalNote = *input.InternalNote
	}
	if target == constants.OrderStatusCancelled {
		order.CancelledAt = &now
	}

	s.enqueueStatusEmail(order.ID, target)

	return s.buildOrderDetail(order)
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(orderID uint) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.buildOrderDetail(order)
}

// TrackOrder 按订单号查询订单（前台游客查单，邮箱必须匹配）
func (s *OrderService) TrackOrder(orderNo, email string) (*OrderDetail, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !strings.EqualFold(strings.TrimSpace(email), order.Email) {
		return nil, ErrOrderNotFound
	}
	return s.buildOrderDetail(order)
}

// ListOrders 后台订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

func (s *OrderService) buildOrderDetail(order *models.Order) (*OrderDetail, error) {
	history, err := s.orderRepo.ListStatusHistory(order.ID, statusHistoryDisplayLimit)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, StatusHistory: history}, nil
}

func (s *OrderService) enqueueStatusEmail(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func (s *OrderService) resolveSiteCurrency() string {
	if s.settingRepo != nil {
		setting, err := s.settingRepo.GetByKey(constants.SettingKeySiteConfig)
		if err == nil && setting != nil {
			if raw, ok := setting.ValueJSON[constants.SettingFieldSiteCurrency]; ok {
				if text, ok := raw.(string); ok && strings.TrimSpace(text) != "" {
					return strings.ToUpper(strings.TrimSpace(text))
				}
			}
		}
	}
	return constants.SiteCurrencyDefault
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("AT%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
