package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateProductRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	product, err := ar.productService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	product, err := ar.productService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.productService.Delete(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Product deleted"), gecho.Send())
}
