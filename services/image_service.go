package services

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
)

// ImageService keeps product images and the primary image of each product consistent:
// for every product at most one image is at position 1 and products.primary_image_id points at it.
type ImageService struct {
	logger  *gecho.Logger
	catalog database.CatalogStore
	blobs   BlobStore
}

func NewImageService(logger *gecho.Logger, catalog database.CatalogStore, blobs BlobStore) *ImageService {
	return &ImageService{
		logger:  logger,
		catalog: catalog,
		blobs:   blobs,
	}
}

// Create stores the file and inserts the image row. With position 1 and a product the image becomes
// that product's primary image and any previous primary is demoted, all in one transaction.
func (is *ImageService) Create(ctx context.Context, productID *int, data []byte, filename string, position *int) (*tables.ProductImage, error) {
	if len(data) == 0 {
		return nil, lib.BadRequest("image is required")
	}
	if contentType := http.DetectContentType(data); !strings.HasPrefix(contentType, "image/") {
		return nil, lib.BadRequest("file is not an image (%s)", contentType)
	}
	if position != nil && *position < 1 {
		return nil, lib.BadRequest("position must be at least 1")
	}
	if productID != nil && *productID < 1 {
		return nil, lib.BadRequest("product_id must be a positive integer")
	}

	url, err := is.blobs.Save(ctx, data, filename)
	if err != nil {
		is.logger.Error("Failed to store image file", gecho.Field("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to store image", lib.ErrInternal)
	}

	img := &tables.ProductImage{
		ProductID: productID,
		ImageURL:  url,
		Position:  position,
	}

	err = is.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		if productID != nil {
			if _, err := tx.LockProduct(ctx, *productID); err != nil {
				return err
			}
		}

		if err := tx.InsertImage(ctx, img); err != nil {
			return err
		}

		if productID != nil && isPrimary(position) {
			return makePrimary(ctx, tx, *productID, img.ID)
		}
		return nil
	})
	if err != nil {
		// The row was rolled back, remove the orphaned file
		if delErr := is.blobs.Delete(context.WithoutCancel(ctx), url); delErr != nil {
			is.logger.Error("Failed to remove image file after rollback",
				gecho.Field("url", url),
				gecho.Field("error", delErr.Error()),
			)
		}
		is.logger.Warn("Failed to create image", gecho.Field("error", err.Error()))
		return nil, err
	}

	is.logger.Info("Image created",
		gecho.Field("image_id", img.ID),
		gecho.Field("product_id", productID),
		gecho.Field("position", position),
	)
	return img, nil
}

// Update moves an image to another product and/or position. Absent fields of req are left
// unchanged, an explicit null clears them.
func (is *ImageService) Update(ctx context.Context, req *structs.UpdateImageRequest) (*tables.ProductImage, error) {
	if p := req.Position.Value; p != nil && *p < 1 {
		return nil, lib.BadRequest("position must be at least 1")
	}
	if id := req.ProductID.Value; id != nil && *id < 1 {
		return nil, lib.BadRequest("product_id must be a positive integer")
	}

	var updated *tables.ProductImage
	err := is.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		img, locked, err := lockImage(ctx, tx, req.ID, req.ProductID.Value)
		if err != nil {
			return err
		}

		oldProductID := img.ProductID
		newProductID := req.ProductID.Or(img.ProductID)
		newPosition := req.Position.Or(img.Position)

		img.ProductID = newProductID
		img.Position = newPosition
		if err := tx.UpdateImage(ctx, img); err != nil {
			return err
		}

		// A primary image that leaves position 1 or its product is no longer that product's primary
		if old, ok := productOf(locked, oldProductID); ok {
			stillPrimary := newProductID != nil && *newProductID == *oldProductID && isPrimary(newPosition)
			if old.PrimaryImageID != nil && *old.PrimaryImageID == img.ID && !stillPrimary {
				if err := tx.SetPrimaryImage(ctx, *oldProductID, nil); err != nil {
					return err
				}
			}
		}

		if newProductID != nil && isPrimary(newPosition) {
			if err := makePrimary(ctx, tx, *newProductID, img.ID); err != nil {
				return err
			}
		}

		updated = img
		return nil
	})
	if err != nil {
		is.logger.Warn("Failed to update image", gecho.Field("image_id", req.ID), gecho.Field("error", err.Error()))
		return nil, err
	}

	is.logger.Info("Image updated",
		gecho.Field("image_id", updated.ID),
		gecho.Field("product_id", updated.ProductID),
		gecho.Field("position", updated.Position),
	)
	return updated, nil
}

// Delete removes the image row and clears any primary_image_id pointing at it in the same
// transaction. The file is removed after commit, a failure there is only logged.
func (is *ImageService) Delete(ctx context.Context, imageID int) error {
	var url string
	err := is.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		img, _, err := lockImage(ctx, tx, imageID, nil)
		if err != nil {
			return err
		}

		if err := tx.ClearPrimaryReferences(ctx, imageID); err != nil {
			return err
		}
		if err := tx.DeleteImage(ctx, imageID); err != nil {
			return err
		}

		url = img.ImageURL
		return nil
	})
	if err != nil {
		is.logger.Warn("Failed to delete image", gecho.Field("image_id", imageID), gecho.Field("error", err.Error()))
		return err
	}

	if err := is.blobs.Delete(ctx, url); err != nil {
		is.logger.Error("Failed to remove image file",
			gecho.Field("image_id", imageID),
			gecho.Field("url", url),
			gecho.Field("error", err.Error()),
		)
	}

	is.logger.Info("Image deleted", gecho.Field("image_id", imageID))
	return nil
}

func (is *ImageService) Get(ctx context.Context, imageID int) (*tables.ProductImage, error) {
	return is.catalog.GetImage(ctx, imageID)
}

// ListByProduct returns the images of a product ordered by position, unpositioned images last
func (is *ImageService) ListByProduct(ctx context.Context, productID *int) ([]tables.ProductImage, error) {
	return is.catalog.ListImages(ctx, productID)
}

func isPrimary(position *int) bool {
	return position != nil && *position == tables.PrimaryPosition
}

// makePrimary points the product at imageID and demotes every other image at position 1.
// The product row must already be locked by tx.
func makePrimary(ctx context.Context, tx database.CatalogTx, productID, imageID int) error {
	if err := tx.SetPrimaryImage(ctx, productID, &imageID); err != nil {
		return err
	}
	return tx.DemotePrimaries(ctx, productID, imageID)
}

// lockProducts locks the distinct non nil product ids in ascending order so two updates
// touching the same pair of products cannot deadlock. Only a missing required product is an error,
// the previous owner of an image may have been deleted already.
func lockProducts(ctx context.Context, tx database.CatalogTx, required, previous *int) (map[int]*tables.Product, error) {
	var ids []int
	for _, id := range []*int{required, previous} {
		if id != nil && !slices.Contains(ids, *id) {
			ids = append(ids, *id)
		}
	}
	slices.Sort(ids)

	locked := make(map[int]*tables.Product, len(ids))
	for _, id := range ids {
		p, err := tx.LockProduct(ctx, id)
		if err != nil {
			if lib.IsNotFound(err) && (required == nil || *required != id) {
				continue
			}
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

const imageLockAttempts = 3

// lockImage takes the product locks before the image lock, the same order Create and
// DemotePrimaries use. The image is read unlocked to learn its product, then re-read under lock;
// when it changed product in between the locks are taken again for the new owner.
// target is a product the image is about to move to and must exist.
func lockImage(ctx context.Context, tx database.CatalogTx, imageID int, target *int) (*tables.ProductImage, map[int]*tables.Product, error) {
	for range imageLockAttempts {
		seen, err := tx.GetImage(ctx, imageID)
		if err != nil {
			return nil, nil, err
		}

		locked, err := lockProducts(ctx, tx, target, seen.ProductID)
		if err != nil {
			return nil, nil, err
		}

		img, err := tx.LockImage(ctx, imageID)
		if err != nil {
			return nil, nil, err
		}
		if equalIDs(img.ProductID, seen.ProductID) {
			return img, locked, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: image %d is being moved concurrently", lib.ErrConflict, imageID)
}

func equalIDs(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func productOf(locked map[int]*tables.Product, id *int) (*tables.Product, bool) {
	if id == nil {
		return nil, false
	}
	p, ok := locked[*id]
	return p, ok
}
