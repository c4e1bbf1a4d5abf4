package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// CreateSize handles POST /size and links the new row to its product
func (ar *AdminRoutesManager) CreateSize(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateSizeRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	size, err := ar.sizeService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Size created"), gecho.WithData(size), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateSize(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.SizeQuantities](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	size, err := ar.sizeService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Size updated"), gecho.WithData(size), gecho.Send())
}
