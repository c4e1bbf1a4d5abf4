package services

import (
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	AdminGate       *AdminGate
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CategoryService *CategoryService
	ProductService  *ProductService
	ImageService    *ImageService
	SizeService     *SizeService
	OrderService    *OrderService
}

func NewServiceManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	blobs BlobStore,
	cipher *lib.FieldCipher,
) *ServiceManager {
	catalog := database.NewCatalogRepo(db)
	orders := database.NewOrderRepo(db)
	users := database.NewUserRepo(db)

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	authService := NewAuthService(cfg, logger, users, emailService)

	return &ServiceManager{
		AuthService:     authService,
		AdminGate:       NewAdminGate(logger, cfg, users),
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   NewHealthService(logger, db, cacheService),
		CategoryService: NewCategoryService(logger, db),
		ProductService:  NewProductService(logger, catalog),
		ImageService:    NewImageService(logger, catalog, blobs),
		SizeService:     NewSizeService(logger, catalog),
		OrderService:    NewOrderService(logger, cfg, orders, emailService, cipher),
	}
}
