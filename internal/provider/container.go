package provider

import (
	"github.com/atelier-next/internal/cache"
	"github.com/atelier-next/internal/config"
	"github.com/atelier-next/internal/logger"
	"github.com/atelier-next/internal/models"
	"github.com/atelier-next/internal/queue"
	"github.com/atelier-next/internal/repository"
	"github.com/atelier-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	OrderRepo        repository.OrderRepository
	CouponRepo       repository.CouponRepository
	CouponUsageRepo  repository.CouponUsageRepository
	ShippingZoneRepo repository.ShippingZoneRepository
	SettingRepo      repository.SettingRepository

	// Services
	AuthService          *service.AuthService
	EmailService         *service.EmailService
	CouponService        *service.CouponService
	CouponAdminService   *service.CouponAdminService
	ShippingService      *service.ShippingService
	ShippingAdminService *service.ShippingAdminService
	OrderService         *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.ShippingZoneRepo = repository.NewShippingZoneRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.CouponUsageRepo)
	c.ShippingService = service.NewShippingService(c.Config, c.ShippingZoneRepo, c.SettingRepo)
	c.ShippingAdminService = service.NewShippingAdminService(c.ShippingZoneRepo, c.SettingRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CouponRepo, c.CouponUsageRepo, c.SettingRepo, c.CouponService, c.ShippingService, c.QueueClient)
}
