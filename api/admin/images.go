package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// UpdateImage handles PUT /product_image/update. Moving an image to position 1 makes it the primary image.
func (ar *AdminRoutesManager) UpdateImage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.UpdateImageRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	image, err := ar.imageService.Update(r.Context(), body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image updated"),
		gecho.WithData(image),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.imageService.Delete(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Image deleted"), gecho.Send())
}
