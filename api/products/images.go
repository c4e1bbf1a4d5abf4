package products

import (
	"errors"
	"io"
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// UploadImage handles POST /product_image?position=. The multipart form carries the file
// under "image" and an optional product_id.
func (prm *ProductRoutesManager) UploadImage(w http.ResponseWriter, r *http.Request) {
	maxBytes := prm.cfg.Storage.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handling.RespondError(w, prm.logger, lib.BadRequest("image exceeds %d bytes", maxBytes))
			return
		}
		handling.RespondError(w, prm.logger, lib.BadRequest("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	position, err := handling.QueryInt(r, "position")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}
	productID, err := handling.FormInt(r, "product_id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handling.RespondError(w, prm.logger, lib.BadRequest("image file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handling.RespondError(w, prm.logger, lib.BadRequest("failed to read image"))
		return
	}

	image, err := prm.imageService.Create(r.Context(), productID, data, header.Filename, position)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image uploaded"),
		gecho.WithData(image),
		gecho.Send(),
	)
}

// GetImage handles GET /product_image/{id}
func (prm *ProductRoutesManager) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamID(r, "id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	image, err := prm.imageService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(image), gecho.Send())
}

// ListImages handles GET /product_images?product_id=, without a product id the unassigned images are listed
func (prm *ProductRoutesManager) ListImages(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.QueryInt(r, "product_id")
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	images, err := prm.imageService.ListByProduct(r.Context(), productID)
	if err != nil {
		handling.RespondError(w, prm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(images), gecho.Send())
}
