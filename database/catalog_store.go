package database

import (
	"context"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/uptrace/bun"
)

// CatalogRepo is the bun backed CatalogStore
type CatalogRepo struct {
	db *DB
}

func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) WithinTx(ctx context.Context, fn func(tx CatalogTx) error) error {
	return Transaction(r.db, ctx, func(tx bun.Tx) error {
		return fn(&catalogTx{tx: tx})
	})
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id int) (*tables.Product, error) {
	return first(Query[tables.Product](r.db).Where("id", id), ctx)
}

func (r *CatalogRepo) ListProducts(ctx context.Context, filter structs.ProductFilter) ([]tables.Product, error) {
	q := Query[tables.Product](r.db)
	q = WhereIf(q, "id", filter.ProductID)
	q = WhereIf(q, "category_id", filter.CategoryID)

	products, err := q.OrderBy("id", ASC).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return products, nil
}

func (r *CatalogRepo) GetImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	return first(Query[tables.ProductImage](r.db).Where("id", id), ctx)
}

// ListImages returns the images of productID, or the unassigned images when productID is nil
func (r *CatalogRepo) ListImages(ctx context.Context, productID *int) ([]tables.ProductImage, error) {
	q := Query[tables.ProductImage](r.db)
	if productID != nil {
		q = q.Where("product_id", *productID)
	} else {
		q = q.WhereNull("product_id")
	}

	images, err := q.OrderByRaw("position ASC NULLS LAST").OrderBy("id", ASC).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return images, nil
}

func (r *CatalogRepo) GetSizeByProduct(ctx context.Context, productID int) (*tables.ProductSize, error) {
	return first(Query[tables.ProductSize](r.db).Where("product_id", productID).OrderBy("id", DESC), ctx)
}

type catalogTx struct {
	tx bun.Tx
}

func (t *catalogTx) LockProduct(ctx context.Context, id int) (*tables.Product, error) {
	return first(Query[tables.Product](t.tx).Where("id", id).ForUpdate(), ctx)
}

func (t *catalogTx) GetImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	return first(Query[tables.ProductImage](t.tx).Where("id", id), ctx)
}

func (t *catalogTx) LockImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	return first(Query[tables.ProductImage](t.tx).Where("id", id).ForUpdate(), ctx)
}

func (t *catalogTx) InsertImage(ctx context.Context, img *tables.ProductImage) error {
	_, err := Query[tables.ProductImage](t.tx).Insert(ctx, img)
	return lib.MapPgError(err)
}

func (t *catalogTx) UpdateImage(ctx context.Context, img *tables.ProductImage) error {
	return exactlyOne(Query[tables.ProductImage](t.tx).Where("id", img.ID).Update(ctx, map[string]any{
		"product_id": img.ProductID,
		"position":   img.Position,
		"updated_at": time.Now(),
	}))
}

func (t *catalogTx) DeleteImage(ctx context.Context, id int) error {
	return exactlyOne(Query[tables.ProductImage](t.tx).Where("id", id).Delete(ctx))
}

func (t *catalogTx) SetPrimaryImage(ctx context.Context, productID int, imageID *int) error {
	return exactlyOne(Query[tables.Product](t.tx).Where("id", productID).Update(ctx, map[string]any{
		"primary_image_id": imageID,
		"updated_at":       time.Now(),
	}))
}

func (t *catalogTx) DemotePrimaries(ctx context.Context, productID, keepID int) error {
	_, err := Query[tables.ProductImage](t.tx).
		Where("product_id", productID).
		Where("position", tables.PrimaryPosition).
		WhereOp("id", "<>", keepID).
		Update(ctx, map[string]any{
			"position":   nil,
			"updated_at": time.Now(),
		})
	return lib.MapPgError(err)
}

func (t *catalogTx) ClearPrimaryReferences(ctx context.Context, imageID int) error {
	_, err := Query[tables.Product](t.tx).Where("primary_image_id", imageID).Update(ctx, map[string]any{
		"primary_image_id": nil,
		"updated_at":       time.Now(),
	})
	return lib.MapPgError(err)
}

func (t *catalogTx) InsertProduct(ctx context.Context, p *tables.Product) error {
	_, err := Query[tables.Product](t.tx).Insert(ctx, p)
	return lib.MapPgError(err)
}

func (t *catalogTx) UpdateProduct(ctx context.Context, p *tables.Product) error {
	return exactlyOne(Query[tables.Product](t.tx).Where("id", p.ID).Update(ctx, map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"updated_at":  time.Now(),
	}))
}

func (t *catalogTx) DeleteProduct(ctx context.Context, id int) error {
	return exactlyOne(Query[tables.Product](t.tx).Where("id", id).Delete(ctx))
}

func (t *catalogTx) InsertSize(ctx context.Context, size *tables.ProductSize) error {
	_, err := Query[tables.ProductSize](t.tx).Insert(ctx, size)
	return lib.MapPgError(err)
}

func (t *catalogTx) LockSize(ctx context.Context, id int) (*tables.ProductSize, error) {
	return first(Query[tables.ProductSize](t.tx).Where("id", id).ForUpdate(), ctx)
}

func (t *catalogTx) UpdateSize(ctx context.Context, size *tables.ProductSize) error {
	return exactlyOne(Query[tables.ProductSize](t.tx).Where("id", size.ID).Update(ctx, map[string]any{
		"single_size": size.SingleSize,
		"s":           size.S,
		"m":           size.M,
		"l":           size.L,
		"xl":          size.XL,
		"xxl":         size.XXL,
	}))
}

func (t *catalogTx) SetProductSize(ctx context.Context, productID, sizeID int) error {
	return exactlyOne(Query[tables.Product](t.tx).Where("id", productID).Update(ctx, map[string]any{
		"size_id":    sizeID,
		"updated_at": time.Now(),
	}))
}

// first runs q and turns an empty result into lib.ErrNotFound
func first[T any](q *QueryBuilder[T], ctx context.Context) (*T, error) {
	row, err := q.First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if row == nil {
		return nil, lib.ErrNotFound
	}
	return row, nil
}

// exactlyOne maps the result of a write that targets a single row by id
func exactlyOne(n int, err error) error {
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
