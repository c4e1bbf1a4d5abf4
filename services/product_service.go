package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
)

type ProductService struct {
	logger  *gecho.Logger
	catalog database.CatalogStore
}

func NewProductService(logger *gecho.Logger, catalog database.CatalogStore) *ProductService {
	return &ProductService{
		logger:  logger,
		catalog: catalog,
	}
}

// List returns the products matching every set field of filter
func (ps *ProductService) List(ctx context.Context, filter structs.ProductFilter) ([]tables.Product, error) {
	products, err := ps.catalog.ListProducts(ctx, filter)
	if err != nil {
		ps.logger.Error("Failed to fetch products", gecho.Field("error", err.Error()))
		return nil, err
	}

	ps.logger.Debug("Products fetched successfully", gecho.Field("count", len(products)))
	return products, nil
}

func (ps *ProductService) Get(ctx context.Context, id int) (*tables.Product, error) {
	return ps.catalog.GetProduct(ctx, id)
}

// Create inserts the product. When req names a primary image that was uploaded without a product,
// the image is attached at position 1 in the same transaction.
func (ps *ProductService) Create(ctx context.Context, req *structs.CreateProductRequest) (*tables.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, lib.BadRequest("name is required")
	}
	if req.Price < 0 {
		return nil, lib.BadRequest("price must not be negative")
	}

	product := &tables.Product{
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}

	err := ps.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		if err := tx.InsertProduct(ctx, product); err != nil {
			return err
		}
		if req.PrimaryImageID == nil {
			return nil
		}

		img, err := tx.LockImage(ctx, *req.PrimaryImageID)
		if err != nil {
			return err
		}
		if img.ProductID != nil {
			return lib.BadRequest("image %d already belongs to product %d", img.ID, *img.ProductID)
		}

		position := tables.PrimaryPosition
		img.ProductID = &product.ID
		img.Position = &position
		if err := tx.UpdateImage(ctx, img); err != nil {
			return err
		}
		if err := makePrimary(ctx, tx, product.ID, img.ID); err != nil {
			return err
		}
		product.PrimaryImageID = &img.ID
		return nil
	})
	if err != nil {
		ps.logger.Warn("Failed to create product", gecho.Field("error", err.Error()))
		return nil, err
	}

	ps.logger.Info("Product created", gecho.Field("product_id", product.ID), gecho.Field("primary_image_id", product.PrimaryImageID))
	return product, nil
}

// Update writes the set fields of req. The primary image is managed through the image endpoints.
func (ps *ProductService) Update(ctx context.Context, id int, req *structs.UpdateProductRequest) (*tables.Product, error) {
	var product *tables.Product
	err := ps.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		current, err := tx.LockProduct(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return lib.BadRequest("name must not be empty")
			}
			current.Name = name
		}
		if req.Description != nil {
			current.Description = req.Description
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return lib.BadRequest("price must not be negative")
			}
			current.Price = *req.Price
		}
		if req.CategoryID != nil {
			current.CategoryID = req.CategoryID
		}

		if err := tx.UpdateProduct(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		ps.logger.Warn("Failed to update product", gecho.Field("product_id", id), gecho.Field("error", err.Error()))
		return nil, err
	}

	ps.logger.Info("Product updated", gecho.Field("product_id", id))
	return product, nil
}

// Delete removes the product. Its images stay stored and can be attached to another product.
func (ps *ProductService) Delete(ctx context.Context, id int) error {
	err := ps.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		if _, err := tx.LockProduct(ctx, id); err != nil {
			return err
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		ps.logger.Warn("Failed to delete product", gecho.Field("product_id", id), gecho.Field("error", err.Error()))
		return err
	}

	ps.logger.Info("Product deleted", gecho.Field("product_id", id))
	return nil
}
