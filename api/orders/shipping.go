package orders

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (orm *OrderRoutesManager) AddShipping(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddShippingRequest](r)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	shipping, err := orm.orderService.AddShipping(r.Context(), body)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Shipping address saved"), gecho.WithData(shipping), gecho.Send())
}

func (orm *OrderRoutesManager) GetShipping(w http.ResponseWriter, r *http.Request) {
	orderID, err := handling.URLParamID(r, "order_id")
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	shipping, err := orm.orderService.GetShipping(r.Context(), orderID)
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(shipping), gecho.Send())
}

// NotifyNewOrder handles POST /mail/new_order/{id}. The mail is sent in the background.
func (orm *OrderRoutesManager) NotifyNewOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	if err := orm.orderService.NotifyNewOrder(r.Context(), id); err != nil {
		handling.RespondError(w, orm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Order notification queued"), gecho.Send())
}
