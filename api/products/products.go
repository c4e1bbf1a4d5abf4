package products

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListProducts handles GET /products?category_id=&product_id=
func (prm *ProductRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter structs.ProductFilter
	var err error

	if filter.CategoryID, err = handling.QueryInt(r, "category_id"); err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}
	if filter.ProductID, err = handling.QueryInt(r, "product_id"); err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	products, err := prm.productService.List(r.Context(), filter)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(products),
		gecho.Send(),
	)
}

// GetProduct handles GET /product/{id}
func (prm *ProductRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	product, err := prm.productService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (prm *ProductRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := prm.categoryService.List(r.Context())
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (prm *ProductRoutesManager) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	category, err := prm.categoryService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

// GetSize handles GET /size/{product_id}
func (prm *ProductRoutesManager) GetSize(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamID(r, "product_id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	size, err := prm.sizeService.GetByProduct(r.Context(), productID)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(size), gecho.Send())
}
