package orders

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// CreateOrder handles POST /order. The order, its items and the shipping address are written atomically.
func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	var userID *int
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		userID = &principal.UserID
	}

	order, err := orm.orderService.PlaceOrder(r.Context(), userID, body)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order placed"),
		gecho.WithData(order),
		gecho.Send(),
	)
}
