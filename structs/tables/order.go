package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`
	ID            int         `bun:"id,pk,autoincrement" json:"id"`
	UserID        *int        `bun:"user_id" json:"user_id"` // nil for guest orders
	TotalPrice    int64       `bun:"total_price,notnull" json:"total_price"`
	Status        OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`
	OnlinePayment bool        `bun:"online_payment,notnull,default:false" json:"online_payment"`
	CreatedAt     time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`
	ID            int     `bun:"id,pk,autoincrement" json:"id"`
	OrderID       int     `bun:"order_id,notnull" json:"order_id"`
	ProductID     *int    `bun:"product_id" json:"product_id"`
	Quantity      int     `bun:"quantity,notnull" json:"quantity"`
	Price         int64   `bun:"price,notnull" json:"price"`             // unit price when ordered
	Size          *string `bun:"size" json:"size"`
	TotalPrice    int64   `bun:"total_price,notnull" json:"total_price"` // quantity * price
}

type ShippingAddress struct {
	bun.BaseModel `bun:"table:shipping_addresses,alias:sa"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	OrderID       int       `bun:"order_id,notnull,unique" json:"order_id"`
	Address       string    `bun:"address,notnull" json:"address"`
	City          *string   `bun:"city" json:"city"`
	Branch        *string   `bun:"branch" json:"branch"`
	FirstName     string    `bun:"first_name,notnull" json:"first_name"`
	LastName      string    `bun:"last_name,notnull" json:"last_name"`
	PhoneNumber   string    `bun:"phone_number,notnull" json:"phone_number"`
	Email         string    `bun:"email,notnull" json:"email"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// OrderDetails is the read model returned for a single order
type OrderDetails struct {
	OrderID  int                        `json:"order_id"`
	Shipping *ShippingAddress           `json:"shipping"`
	Items    []OrderItemWithProductName `json:"items"`
}

type OrderItemWithProductName struct {
	ID          int     `bun:"id" json:"id"`
	ProductName *string `bun:"product_name" json:"product_name"`
	Quantity    int     `bun:"quantity" json:"quantity"`
	Size        *string `bun:"size" json:"size"`
	TotalPrice  int64   `bun:"total_price" json:"total_price"`
}
