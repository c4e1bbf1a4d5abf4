package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// UpdateOrderStatus handles PUT /order/{id}
func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderStatusRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.orderService.UpdateStatus(r.Context(), id, body.Status); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	ar.logger.Info("Order status updated", gecho.Field("order_id", id), gecho.Field("status", body.Status))
	gecho.Success(w, gecho.WithMessage("Order status updated"), gecho.Send())
}

// DeleteOrder handles DELETE /order/{id}; items and shipping go with it
func (ar *AdminRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.orderService.Delete(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	ar.logger.Info("Order deleted", gecho.Field("order_id", id))
	gecho.Success(w, gecho.WithMessage("Order deleted"), gecho.Send())
}
