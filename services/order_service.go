package services

import (
	"context"
	"fmt"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

// Per item bounds, the product of the two stays far below the bigint range
const (
	maxItemQuantity = 10_000
	maxItemPrice    = 100_000_000
)

type OrderService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	orders database.OrderStore
	mailer Mailer
	cipher *lib.FieldCipher
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	orders database.OrderStore,
	mailer Mailer,
	cipher *lib.FieldCipher,
) *OrderService {
	return &OrderService{
		logger: logger,
		cfg:    cfg,
		orders: orders,
		mailer: mailer,
		cipher: cipher,
	}
}

// PlaceOrder writes the order, its items and the optional shipping address in one transaction.
// Item totals are always quantity * price. The order total is the sum of the item totals unless
// the configuration trusts the client supplied total.
func (ors *OrderService) PlaceOrder(ctx context.Context, userID *int, req *structs.OrderRequest) (*tables.Order, error) {
	if len(req.Items) == 0 {
		return nil, lib.BadRequest("order must contain at least one item")
	}

	status := tables.OrderStatusPending
	if req.Status != "" {
		status = tables.OrderStatus(req.Status)
		if !status.Valid() {
			return nil, lib.BadRequest("invalid order status %q", req.Status)
		}
	}

	items := make([]*tables.OrderItem, 0, len(req.Items))
	var computed int64
	for i, it := range req.Items {
		if it.ProductID < 1 {
			return nil, lib.BadRequest("item %d: product_id must be a positive integer", i)
		}
		if it.Quantity < 1 || it.Quantity > maxItemQuantity {
			return nil, lib.BadRequest("item %d: quantity must be between 1 and %d", i, maxItemQuantity)
		}
		if it.Price < 0 || it.Price > maxItemPrice {
			return nil, lib.BadRequest("item %d: price must be between 0 and %d", i, maxItemPrice)
		}

		productID := it.ProductID
		total := int64(it.Quantity) * it.Price
		items = append(items, &tables.OrderItem{
			ProductID:  &productID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			Size:       it.Size,
			TotalPrice: total,
		})
		computed += total
	}

	orderTotal := computed
	if req.TotalPrice != computed {
		ors.logger.Warn("Order total does not match the sum of its items",
			gecho.Field("client_total", req.TotalPrice),
			gecho.Field("computed_total", computed),
			gecho.Field("trust_client_total", ors.cfg.Orders.TrustClientTotal),
		)
		if ors.cfg.Orders.TrustClientTotal {
			orderTotal = req.TotalPrice
		}
	}

	var shipping *tables.ShippingAddress
	if req.Shipping != nil {
		s, err := ors.sealShipping(req.Shipping)
		if err != nil {
			return nil, err
		}
		shipping = s
	}

	order := &tables.Order{
		UserID:        userID,
		TotalPrice:    orderTotal,
		Status:        status,
		OnlinePayment: req.OnlinePayment,
	}

	err := ors.orders.WithinTx(ctx, func(tx database.OrderTx) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range items {
			item.OrderID = order.ID
			// Any failed item insert is a database error, a missing product included
			if err := tx.InsertItem(ctx, item); err != nil {
				return lib.Database(fmt.Errorf("insert item %d: %v", i, err))
			}
		}

		if shipping != nil {
			shipping.OrderID = order.ID
			if err := tx.InsertShipping(ctx, shipping); err != nil {
				return fmt.Errorf("insert shipping address: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		ors.logger.Error("Failed to place order, transaction rolled back",
			gecho.Field("error", err.Error()),
			gecho.Field("items", len(items)),
		)
		return nil, lib.Database(err)
	}

	OrdersPlaced.Inc()
	ors.logger.Info("Order placed",
		gecho.Field("order_id", order.ID),
		gecho.Field("items", len(items)),
		gecho.Field("total_price", order.TotalPrice),
	)

	if shipping != nil {
		ors.notifyAsync(order.ID)
	}

	return order, nil
}

// ListOrders returns the orders matching every set field of filter, oldest first
func (ors *OrderService) ListOrders(ctx context.Context, filter structs.OrderFilter) ([]tables.Order, error) {
	if filter.Status != nil && !tables.OrderStatus(*filter.Status).Valid() {
		return nil, lib.BadRequest("invalid order status %q", *filter.Status)
	}

	orders, err := ors.orders.ListOrders(ctx, filter)
	if err != nil {
		ors.logger.Error("Failed to list orders", gecho.Field("error", err.Error()))
		return nil, err
	}
	return orders, nil
}

// GetOrderDetails returns the shipping address and the items of an order.
// An order without shipping address or without items is reported as not found.
func (ors *OrderService) GetOrderDetails(ctx context.Context, orderID int) (*tables.OrderDetails, error) {
	shipping, err := ors.GetShipping(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := ors.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, lib.ErrNotFound
	}

	return &tables.OrderDetails{
		OrderID:  orderID,
		Shipping: shipping,
		Items:    items,
	}, nil
}

// UpdateStatus sets the status of an order. Any known status may follow any other.
func (ors *OrderService) UpdateStatus(ctx context.Context, orderID int, status string) error {
	if status == "" {
		return lib.BadRequest("status is required")
	}
	s := tables.OrderStatus(status)
	if !s.Valid() {
		return lib.BadRequest("invalid order status %q", status)
	}

	n, err := ors.orders.UpdateStatus(ctx, orderID, s)
	if err != nil {
		ors.logger.Error("Failed to update order status", gecho.Field("order_id", orderID), gecho.Field("error", err.Error()))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	ors.logger.Info("Order status updated", gecho.Field("order_id", orderID), gecho.Field("status", status))
	return nil
}

// Delete removes an order together with its items and shipping address
func (ors *OrderService) Delete(ctx context.Context, orderID int) error {
	n, err := ors.orders.DeleteOrder(ctx, orderID)
	if err != nil {
		ors.logger.Error("Failed to delete order", gecho.Field("order_id", orderID), gecho.Field("error", err.Error()))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	ors.logger.Info("Order deleted", gecho.Field("order_id", orderID))
	return nil
}

// AddShipping attaches a shipping address to an existing order, an order has at most one
func (ors *OrderService) AddShipping(ctx context.Context, req *structs.AddShippingRequest) (*tables.ShippingAddress, error) {
	if _, err := ors.orders.GetOrder(ctx, req.OrderID); err != nil {
		return nil, err
	}

	shipping, err := ors.sealShipping(&req.ShippingRequest)
	if err != nil {
		return nil, err
	}
	shipping.OrderID = req.OrderID

	if err := ors.orders.InsertShipping(ctx, shipping); err != nil {
		if lib.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: order %d already has a shipping address", lib.ErrConflict, req.OrderID)
		}
		return nil, err
	}

	ors.logger.Info("Shipping address added", gecho.Field("order_id", req.OrderID))
	return ors.openShipping(shipping), nil
}

func (ors *OrderService) GetShipping(ctx context.Context, orderID int) (*tables.ShippingAddress, error) {
	shipping, err := ors.orders.GetShipping(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ors.openShipping(shipping), nil
}

// NotifyNewOrder mails the details of an order in the background. Missing details are reported
// synchronously, delivery failures are only logged.
func (ors *OrderService) NotifyNewOrder(ctx context.Context, orderID int) error {
	details, err := ors.GetOrderDetails(ctx, orderID)
	if err != nil {
		return err
	}

	go ors.sendDetails(details)
	return nil
}

func (ors *OrderService) notifyAsync(orderID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		details, err := ors.GetOrderDetails(ctx, orderID)
		if err != nil {
			ors.logger.Error("Failed to load order for notification", gecho.Field("order_id", orderID), gecho.Field("error", err.Error()))
			return
		}
		ors.sendDetails(details)
	}()
}

func (ors *OrderService) sendDetails(details *tables.OrderDetails) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ors.mailer.SendOrderDetails(ctx, details); err != nil {
		ors.logger.Error("Failed to send order notification",
			gecho.Field("order_id", details.OrderID),
			gecho.Field("error", err.Error()),
		)
		return
	}
	ors.logger.Info("Order notification sent", gecho.Field("order_id", details.OrderID))
}

// sealShipping builds the row to store, encrypting the contact fields when a key is configured
func (ors *OrderService) sealShipping(req *structs.ShippingRequest) (*tables.ShippingAddress, error) {
	phone, err := ors.cipher.Seal(req.PhoneNumber)
	if err != nil {
		ors.logger.Error("Failed to encrypt phone number", gecho.Field("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to encrypt shipping contact", lib.ErrInternal)
	}
	email, err := ors.cipher.Seal(req.Email)
	if err != nil {
		ors.logger.Error("Failed to encrypt email", gecho.Field("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to encrypt shipping contact", lib.ErrInternal)
	}

	return &tables.ShippingAddress{
		Address:     req.Address,
		City:        req.City,
		Branch:      req.Branch,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: phone,
		Email:       email,
	}, nil
}

// openShipping returns a copy with the contact fields decrypted. Values that do not decrypt
// were stored before encryption was enabled and are returned as stored.
func (ors *OrderService) openShipping(s *tables.ShippingAddress) *tables.ShippingAddress {
	out := *s
	if !ors.cipher.Enabled() {
		return &out
	}

	if phone, err := ors.cipher.Open(s.PhoneNumber); err == nil {
		out.PhoneNumber = phone
	} else {
		ors.logger.Debug("Shipping phone number is not encrypted", gecho.Field("order_id", s.OrderID))
	}
	if email, err := ors.cipher.Open(s.Email); err == nil {
		out.Email = email
	} else {
		ors.logger.Debug("Shipping email is not encrypted", gecho.Field("order_id", s.OrderID))
	}
	return &out
}
