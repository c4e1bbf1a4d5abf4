package products

import (
	"storefront_server/api/middleware"
	"storefront_server/services"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ProductRoutesManager serves the public catalog and image uploads
type ProductRoutesManager struct {
	logger          *gecho.Logger
	cfg             *structs.Config
	productService  *services.ProductService
	categoryService *services.CategoryService
	imageService    *services.ImageService
	sizeService     *services.SizeService
	mw              *middleware.Middleware
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	productService *services.ProductService,
	categoryService *services.CategoryService,
	imageService *services.ImageService,
	sizeService *services.SizeService,
	mw *middleware.Middleware,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:          logger,
		cfg:             cfg,
		productService:  productService,
		categoryService: categoryService,
		imageService:    imageService,
		sizeService:     sizeService,
		mw:              mw,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/products", prm.ListProducts)
	r.Get("/product/{id}", prm.GetProduct)

	r.Get("/categories", prm.ListCategories)
	r.Get("/category/{id}", prm.GetCategory)

	r.Get("/product_image/{id}", prm.GetImage)
	r.Get("/product_images", prm.ListImages)

	r.Get("/size/{product_id}", prm.GetSize)

	// Uploads need an account and are limited separately
	r.Group(func(r chi.Router) {
		r.Use(prm.mw.Authenticate)
		r.Use(prm.mw.StrictRateLimitMiddleware("upload", prm.cfg.RateLimit.UploadLimit, prm.cfg.RateLimit.UploadWindow))
		r.Post("/product_image", prm.UploadImage)
	})
}
