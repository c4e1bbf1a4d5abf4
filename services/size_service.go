package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type SizeService struct {
	logger  *gecho.Logger
	catalog database.CatalogStore
}

func NewSizeService(logger *gecho.Logger, catalog database.CatalogStore) *SizeService {
	return &SizeService{
		logger:  logger,
		catalog: catalog,
	}
}

// Create inserts the size row and links it to the product in one transaction.
// Nothing is written when the product does not exist.
func (ss *SizeService) Create(ctx context.Context, req *structs.CreateSizeRequest) (*tables.ProductSize, error) {
	if err := validQuantities(&req.SizeQuantities); err != nil {
		return nil, err
	}

	size := &tables.ProductSize{ProductID: req.ProductID}
	applyQuantities(size, &req.SizeQuantities)

	err := ss.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		if _, err := tx.LockProduct(ctx, req.ProductID); err != nil {
			return err
		}
		if err := tx.InsertSize(ctx, size); err != nil {
			return err
		}
		return tx.SetProductSize(ctx, req.ProductID, size.ID)
	})
	if err != nil {
		ss.logger.Warn("Failed to create size", gecho.Field("product_id", req.ProductID), gecho.Field("error", err.Error()))
		return nil, err
	}

	ss.logger.Info("Size created", gecho.Field("size_id", size.ID), gecho.Field("product_id", req.ProductID))
	return size, nil
}

func (ss *SizeService) GetByProduct(ctx context.Context, productID int) (*tables.ProductSize, error) {
	return ss.catalog.GetSizeByProduct(ctx, productID)
}

func (ss *SizeService) Update(ctx context.Context, sizeID int, q *structs.SizeQuantities) (*tables.ProductSize, error) {
	if err := validQuantities(q); err != nil {
		return nil, err
	}

	var size *tables.ProductSize
	err := ss.catalog.WithinTx(ctx, func(tx database.CatalogTx) error {
		current, err := tx.LockSize(ctx, sizeID)
		if err != nil {
			return err
		}
		applyQuantities(current, q)
		if err := tx.UpdateSize(ctx, current); err != nil {
			return err
		}
		size = current
		return nil
	})
	if err != nil {
		ss.logger.Warn("Failed to update size", gecho.Field("size_id", sizeID), gecho.Field("error", err.Error()))
		return nil, err
	}

	ss.logger.Info("Size updated", gecho.Field("size_id", sizeID))
	return size, nil
}

func validQuantities(q *structs.SizeQuantities) error {
	for name, v := range map[string]int{
		"single_size": q.SingleSize, "s": q.S, "m": q.M, "l": q.L, "xl": q.XL, "xxl": q.XXL,
	} {
		if v < 0 {
			return lib.BadRequest("%s must not be negative", name)
		}
	}
	return nil
}

func applyQuantities(size *tables.ProductSize, q *structs.SizeQuantities) {
	size.SingleSize = q.SingleSize
	size.S = q.S
	size.M = q.M
	size.L = q.L
	size.XL = q.XL
	size.XXL = q.XXL
}
