package orders

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListOrders handles GET /orders?status=&user_id=
func (orm *OrderRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := structs.OrderFilter{
		Status: handling.QueryString(r, "status"),
	}

	var err error
	if filter.UserID, err = handling.QueryInt(r, "user_id"); err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	orders, err := orm.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

// GetOrderDetails handles GET /orders/{id}/details
func (orm *OrderRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	details, err := orm.orderService.GetOrderDetails(r.Context(), id)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(details), gecho.Send())
}
