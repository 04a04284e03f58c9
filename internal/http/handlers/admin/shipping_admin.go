package admin

import (
	"errors"

	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ShippingZoneRequest 运费区域配置项
type ShippingZoneRequest struct {
	Name     string   `json:"name" binding:"required"`
	Cities   []string `json:"cities" binding:"required"`
	Fee      float64  `json:"fee"`
	FreeOver float64  `json:"free_over"`
	IsActive *bool    `json:"is_active"`
}

// ReplaceShippingZonesRequest 全量保存运费区域请求
type ReplaceShippingZonesRequest struct {
	Zones []ShippingZoneRequest `json:"zones" binding:"required"`
}

// GetShippingZones 获取运费区域列表，支持按城市筛选
func (h *Handler) GetShippingZones(c *gin.Context) {
	zones, err := h.ShippingAdminService.ListZones(c.Query("city"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, zones)
}

// ReplaceShippingZones 全量替换运费区域配置
func (h *Handler) ReplaceShippingZones(c *gin.Context) {
	var req ReplaceShippingZonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	inputs := make([]service.ShippingZoneInput, 0, len(req.Zones))
	for _, zone := range req.Zones {
		inputs = append(inputs, service.ShippingZoneInput{
			Name:     zone.Name,
			Cities:   zone.Cities,
			Fee:      models.NewMoneyFromDecimal(decimal.NewFromFloat(zone.Fee)),
			FreeOver: models.NewMoneyFromDecimal(decimal.NewFromFloat(zone.FreeOver)),
			IsActive: zone.IsActive,
		})
	}

	zones, err := h.ShippingAdminService.ReplaceZones(c.Request.Context(), inputs)
	if err != nil {
		if errors.Is(err, service.ErrShippingZoneInvalid) {
			respondError(c, response.CodeBadRequest, "error.shipping_zone_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, zones)
}

// GetShippingDefaultFee 查询全国统一运费
func (h *Handler) GetShippingDefaultFee(c *gin.Context) {
	fee, err := h.ShippingAdminService.GetDefaultFee()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"default_fee": fee,
	})
}

// UpdateShippingDefaultFeeRequest 更新全国统一运费请求
type UpdateShippingDefaultFeeRequest struct {
	DefaultFee float64 `json:"default_fee"`
}

// UpdateShippingDefaultFee 更新全国统一运费
func (h *Handler) UpdateShippingDefaultFee(c *gin.Context) {
	var req UpdateShippingDefaultFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	fee := models.NewMoneyFromDecimal(decimal.NewFromFloat(req.DefaultFee))
	if err := h.ShippingAdminService.UpdateDefaultFee(fee); err != nil {
		if errors.Is(err, service.ErrShippingZoneInvalid) {
			respondError(c, response.CodeBadRequest, "error.shipping_zone_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"default_fee": fee,
	})
}
