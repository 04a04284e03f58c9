package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/repository"
	"github.com/atelier-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderDetail 管理端订单详情返回。
// 内部备注与客户端 IP 只在管理端暴露。
type AdminOrderDetail struct {
	*models.Order
	InternalNote  string                      `json:"internal_note"`
	ClientIP      string                      `json:"client_ip,omitempty"`
	StatusHistory []models.OrderStatusHistory `json:"status_history"`
}

func buildAdminOrderDetail(detail *service.OrderDetail) AdminOrderDetail {
	return AdminOrderDetail{
		Order:         detail.Order,
		InternalNote:  detail.Order.InternalNote,
		ClientIP:      detail.Order.ClientIP,
		StatusHistory: detail.StatusHistory,
	}
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		Email:       strings.TrimSpace(c.Query("email")),
		City:        strings.TrimSpace(c.Query("city")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	detail, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, buildAdminOrderDetail(detail))
}

// UpdateOrderStatusRequest 更新订单状态请求。
// status 为空时只更新内部备注，不产生状态历史。
type UpdateOrderStatusRequest struct {
	Status       string  `json:"status"`
	Note         string  `json:"note"`
	InternalNote *string `json:"internal_note"`
}

// AdminUpdateOrderStatus 管理端变更订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	detail, err := h.OrderService.UpdateOrderStatus(uint(orderID), service.UpdateOrderStatusInput{
		Status:       req.Status,
		Note:         req.Note,
		InternalNote: req.InternalNote,
		ChangedBy:    "admin:" + strconv.FormatUint(uint64(adminID), 10),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		case errors.Is(err, service.ErrOrderStatusBlocked):
			respondError(c, response.CodeBadRequest, "error.order_status_blocked", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, buildAdminOrderDetail(detail))
}
