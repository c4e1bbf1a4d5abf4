package admin

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// AdminRoutesManager serves the catalog and order mutations. Every route re-checks the stored role.
type AdminRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	categoryService *services.CategoryService
	imageService    *services.ImageService
	sizeService     *services.SizeService
	orderService    *services.OrderService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	categoryService *services.CategoryService,
	imageService *services.ImageService,
	sizeService *services.SizeService,
	orderService *services.OrderService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		productService:  productService,
		categoryService: categoryService,
		imageService:    imageService,
		sizeService:     sizeService,
		orderService:    orderService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(ar.mw.Authenticate)
		r.Use(ar.mw.RequireAdmin)

		r.Post("/product", ar.CreateProduct)
		r.Put("/product/{id}", ar.UpdateProduct)
		r.Delete("/product/{id}", ar.DeleteProduct)

		r.Put("/product_image/update", ar.UpdateImage)
		r.Delete("/product_image/{id}", ar.DeleteImage)

		r.Post("/category", ar.CreateCategory)
		r.Put("/category/{id}", ar.RenameCategory)
		r.Delete("/category/{id}", ar.DeleteCategory)

		r.Post("/size", ar.CreateSize)
		r.Put("/size/{id}", ar.UpdateSize)

		r.Put("/order/{id}", ar.UpdateOrderStatus)
		r.Delete("/order/{id}", ar.DeleteOrder)
	})
}
