package database

import (
	"context"
	"storefront_server/structs"
	"storefront_server/structs/tables"
)

// Store interfaces consumed by the services. Every method returns errors already mapped
// with lib.MapPgError, the bun implementations are CatalogRepo and OrderRepo.

// CatalogStore reads and writes products, images and sizes
type CatalogStore interface {
	// WithinTx runs fn in a single transaction, committed only when fn returns nil
	WithinTx(ctx context.Context, fn func(tx CatalogTx) error) error

	GetProduct(ctx context.Context, id int) (*tables.Product, error)
	ListProducts(ctx context.Context, filter structs.ProductFilter) ([]tables.Product, error)
	GetImage(ctx context.Context, id int) (*tables.ProductImage, error)
	ListImages(ctx context.Context, productID *int) ([]tables.ProductImage, error)
	GetSizeByProduct(ctx context.Context, productID int) (*tables.ProductSize, error)
}

type CatalogTx interface {
	// LockProduct selects the product FOR UPDATE, ErrNotFound when it does not exist
	LockProduct(ctx context.Context, id int) (*tables.Product, error)
	// GetImage reads the image without locking it
	GetImage(ctx context.Context, id int) (*tables.ProductImage, error)
	// LockImage selects the image FOR UPDATE, ErrNotFound when it does not exist.
	// Lock the image's product first.
	LockImage(ctx context.Context, id int) (*tables.ProductImage, error)

	InsertImage(ctx context.Context, img *tables.ProductImage) error
	// UpdateImage writes product_id and position of img
	UpdateImage(ctx context.Context, img *tables.ProductImage) error
	DeleteImage(ctx context.Context, id int) error
	// SetPrimaryImage points products.primary_image_id at imageID, nil clears it
	SetPrimaryImage(ctx context.Context, productID int, imageID *int) error
	// DemotePrimaries clears the position of every image of productID at position 1 except keepID
	DemotePrimaries(ctx context.Context, productID, keepID int) error
	// ClearPrimaryReferences nulls primary_image_id on every product pointing at imageID
	ClearPrimaryReferences(ctx context.Context, imageID int) error

	InsertProduct(ctx context.Context, p *tables.Product) error
	UpdateProduct(ctx context.Context, p *tables.Product) error
	DeleteProduct(ctx context.Context, id int) error

	InsertSize(ctx context.Context, size *tables.ProductSize) error
	LockSize(ctx context.Context, id int) (*tables.ProductSize, error)
	UpdateSize(ctx context.Context, size *tables.ProductSize) error
	SetProductSize(ctx context.Context, productID, sizeID int) error
}

// OrderStore reads and writes orders with their items and shipping address
type OrderStore interface {
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error

	GetOrder(ctx context.Context, id int) (*tables.Order, error)
	ListOrders(ctx context.Context, filter structs.OrderFilter) ([]tables.Order, error)
	ListItems(ctx context.Context, orderID int) ([]tables.OrderItemWithProductName, error)
	GetShipping(ctx context.Context, orderID int) (*tables.ShippingAddress, error)
	InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error
	// UpdateStatus and DeleteOrder return the number of affected rows
	UpdateStatus(ctx context.Context, id int, status tables.OrderStatus) (int, error)
	DeleteOrder(ctx context.Context, id int) (int, error)
}

type OrderTx interface {
	InsertOrder(ctx context.Context, order *tables.Order) error
	InsertItem(ctx context.Context, item *tables.OrderItem) error
	InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error
}

// UserStore reads and writes user accounts
type UserStore interface {
	GetUserRole(ctx context.Context, userID int) (*string, error)
	GetUserByID(ctx context.Context, id int) (*tables.User, error)
	GetUserByEmail(ctx context.Context, email string) (*tables.User, error)
	InsertUser(ctx context.Context, user *tables.User) error
	// UpdateProfile writes the non nil fields of req
	UpdateProfile(ctx context.Context, id int, req *structs.UpdateProfileRequest) error
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
}
