package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelier-next/internal/config"
	"github.com/atelier-next/internal/constants"
	"github.com/atelier-next/internal/logger"
	"github.com/atelier-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加优惠券
	now := time.Now()
	springStart := now.Add(-24 * time.Hour)
	springEnd := now.AddDate(0, 2, 0)
	flashStart := now.Add(-2 * time.Hour)
	flashEnd := now.AddDate(0, 0, 7)
	expiredStart := now.AddDate(0, -2, 0)
	expiredEnd := now.AddDate(0, -1, 0)

	coupons := []models.Coupon{
		{
			Code:        "SPRING10",
			Type:        constants.CouponTypePercentage,
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MinAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			UsageLimit:  200,
			StartsAt:    &springStart,
			EndsAt:      &springEnd,
			IsActive:    true,
		},
		{
			Code:       "WELCOME20",
			Type:       constants.CouponTypeFixedAmount,
			Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			MinAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
			UsageLimit: 0,
			IsActive:   true,
		},
		{
			Code:        "FLASH15",
			Type:        constants.CouponTypePercentage,
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
			UsageLimit:  50,
			StartsAt:    &flashStart,
			EndsAt:      &flashEnd,
			IsActive:    true,
		},
		{
			Code:       "EXPIRED5",
			Type:       constants.CouponTypeFixedAmount,
			Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			UsageLimit: 10,
			StartsAt:   &expiredStart,
			EndsAt:     &expiredEnd,
			IsActive:   true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 添加运费区域
	zones := []struct {
		Name     string
		Cities   []string
		Fee      float64
		FreeOver float64
	}{
		{Name: "江浙沪", Cities: []string{"上海", "杭州", "苏州", "南京", "宁波"}, Fee: 6, FreeOver: 99},
		{Name: "华北", Cities: []string{"北京", "天津", "石家庄"}, Fee: 8, FreeOver: 129},
		{Name: "华南", Cities: []string{"广州", "深圳", "珠海", "佛山"}, Fee: 8, FreeOver: 129},
		{Name: "偏远地区", Cities: []string{"拉萨", "乌鲁木齐"}, Fee: 20, FreeOver: 0},
	}

	for _, plan := range zones {
		citiesJSON, err := json.Marshal(plan.Cities)
		if err != nil {
			stdLog.Printf("Failed to encode cities for zone %s: %v", plan.Name, err)
			continue
		}
		zone := models.ShippingZone{
			Name:     plan.Name,
			Cities:   string(citiesJSON),
			Fee:      models.NewMoneyFromDecimal(decimal.NewFromFloat(plan.Fee)),
			FreeOver: models.NewMoneyFromDecimal(decimal.NewFromFloat(plan.FreeOver)),
			IsActive: true,
		}

		var existing models.ShippingZone
		if err := models.DB.Where("name = ?", zone.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&zone).Error; err != nil {
				stdLog.Printf("Failed to create shipping zone %s: %v", zone.Name, err)
			} else {
				stdLog.Printf("Created shipping zone: %s", zone.Name)
			}
		} else {
			existing.Cities = zone.Cities
			existing.Fee = zone.Fee
			existing.FreeOver = zone.FreeOver
			existing.IsActive = zone.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update shipping zone %s: %v", zone.Name, err)
			} else {
				stdLog.Printf("Updated shipping zone: %s", zone.Name)
			}
		}
	}

	// 更新运费配置（全国统一运费兜底）
	shippingConfig := map[string]interface{}{
		"default_fee": "12.00",
	}

	var setting models.Setting
	if err := models.DB.Where("key = ?", constants.SettingKeyShippingConfig).First(&setting).Error; err != nil {
		// 不存在则创建
		setting = models.Setting{
			Key:       constants.SettingKeyShippingConfig,
			ValueJSON: models.JSON(shippingConfig),
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create shipping config: %v", err)
		} else {
			stdLog.Println("Created shipping config")
		}
	} else {
		setting.ValueJSON = models.JSON(shippingConfig)
		if err := models.DB.Save(&setting).Error; err != nil {
			stdLog.Printf("Failed to update shipping config: %v", err)
		} else {
			stdLog.Println("Updated shipping config")
		}
	}

	// 添加演示订单
	const demoOrderNo = "AT20260101000001"
	var existingOrder models.Order
	if err := models.DB.Where("order_no = ?", demoOrderNo).First(&existingOrder).Error; err != nil {
		order := models.Order{
			OrderNo:      demoOrderNo,
			Email:        "demo@example.com",
			City:         "上海",
			Status:       constants.OrderStatusPending,
			Currency:     constants.SiteCurrencyDefault,
			Subtotal:     models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
			ShippingFee:  models.NewMoneyFromDecimal(decimal.NewFromInt(0)),
			TotalAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
			ShippingZone: "江浙沪",
		}
		err := models.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			item := models.OrderItem{
				OrderID:    order.ID,
				Name:       "手冲咖啡礼盒",
				UnitPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(60)),
				Quantity:   2,
				TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			history := models.OrderStatusHistory{
				OrderID:   order.ID,
				Status:    constants.OrderStatusPending,
				Note:      "订单创建",
				ChangedBy: "system",
			}
			return tx.Create(&history).Error
		})
		if err != nil {
			stdLog.Printf("Failed to create demo order: %v", err)
		} else {
			stdLog.Printf("Created demo order: %s", demoOrderNo)
		}
	} else {
		stdLog.Printf("Demo order already exists: %s", demoOrderNo)
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Coupons (percentage + fixed amount)")
	fmt.Println("- 4 Shipping zones")
	fmt.Println("- Shipping configuration")
	fmt.Println("- 1 Demo order")
}
