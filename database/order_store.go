package database

import (
	"context"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/uptrace/bun"
)

// OrderRepo is the bun backed OrderStore
type OrderRepo struct {
	db *DB
}

func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	return Transaction(r.db, ctx, func(tx bun.Tx) error {
		return fn(&orderTx{tx: tx})
	})
}

func (r *OrderRepo) GetOrder(ctx context.Context, id int) (*tables.Order, error) {
	return first(Query[tables.Order](r.db).Where("id", id), ctx)
}

// ListOrders returns the matching orders in insertion order
func (r *OrderRepo) ListOrders(ctx context.Context, filter structs.OrderFilter) ([]tables.Order, error) {
	q := Query[tables.Order](r.db)
	q = WhereIf(q, "status", filter.Status)
	q = WhereIf(q, "user_id", filter.UserID)

	orders, err := q.OrderBy("id", ASC).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}

func (r *OrderRepo) ListItems(ctx context.Context, orderID int) ([]tables.OrderItemWithProductName, error) {
	q := Query[tables.OrderItem](r.db).
		Select("oi.id", "p.name AS product_name", "oi.quantity", "oi.size", "oi.total_price").
		LeftJoin("products", "p").On("p.id", "=", "oi.product_id").End().
		Where("oi.order_id", orderID).
		OrderBy("oi.id", ASC)

	items, err := AllInto[tables.OrderItemWithProductName](q, ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return items, nil
}

func (r *OrderRepo) GetShipping(ctx context.Context, orderID int) (*tables.ShippingAddress, error) {
	return first(Query[tables.ShippingAddress](r.db).Where("order_id", orderID), ctx)
}

func (r *OrderRepo) InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error {
	_, err := Query[tables.ShippingAddress](r.db).Insert(ctx, shipping)
	return lib.MapPgError(err)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int, status tables.OrderStatus) (int, error) {
	n, err := Query[tables.Order](r.db).Where("id", id).Update(ctx, map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	})
	return n, lib.MapPgError(err)
}

// DeleteOrder removes the order, items and shipping address go with it through ON DELETE CASCADE
func (r *OrderRepo) DeleteOrder(ctx context.Context, id int) (int, error) {
	n, err := Query[tables.Order](r.db).Where("id", id).Delete(ctx)
	return n, lib.MapPgError(err)
}

type orderTx struct {
	tx bun.Tx
}

func (t *orderTx) InsertOrder(ctx context.Context, order *tables.Order) error {
	_, err := Query[tables.Order](t.tx).Insert(ctx, order)
	return lib.MapPgError(err)
}

func (t *orderTx) InsertItem(ctx context.Context, item *tables.OrderItem) error {
	_, err := Query[tables.OrderItem](t.tx).Insert(ctx, item)
	return lib.MapPgError(err)
}

func (t *orderTx) InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error {
	_, err := Query[tables.ShippingAddress](t.tx).Insert(ctx, shipping)
	return lib.MapPgError(err)
}
