package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	category, err := ar.categoryService.Create(r.Context(), body.Name)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category created"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	category, err := ar.categoryService.Rename(r.Context(), id, body.Name)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category updated"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.categoryService.Delete(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category deleted"), gecho.Send())
}
