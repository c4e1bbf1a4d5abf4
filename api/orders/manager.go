package orders

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	// Guests may order, a valid token attaches the order to the account
	r.With(orm.mw.OptionalAuthenticate).Post("/order", orm.CreateOrder)

	r.Get("/orders", orm.ListOrders)
	r.Get("/orders/{id}/details", orm.GetOrderDetails)

	r.Post("/shipping", orm.AddShipping)
	r.Get("/shipping/{order_id}", orm.GetShipping)

	r.Post("/mail/new_order/{id}", orm.NotifyNewOrder)
}
