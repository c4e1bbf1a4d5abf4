package structs

type OrderItemRequest struct {
	ProductID int     `json:"product_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0,lte=10000"`
	Price     int64   `json:"price" validate:"gte=0,lte=100000000"` // unit price in cents
	Size      *string `json:"size,omitempty" validate:"omitempty,max=25"`
}

type ShippingRequest struct {
	Address     string  `json:"address" validate:"required,max=255"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Branch      *string `json:"branch,omitempty" validate:"omitempty,max=100"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=7,max=20"`
	Email       string  `json:"email" validate:"required,email,max=255"`
}

type OrderRequest struct {
	// TotalPrice is advisory, the stored total is the sum of the item totals
	TotalPrice    int64              `json:"total_price" validate:"gte=0"`
	Status        string             `json:"status,omitempty" validate:"omitempty,oneof=pending paid processing shipped delivered cancelled refunded"`
	OnlinePayment bool               `json:"online_payment"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Shipping      *ShippingRequest   `json:"shipping,omitempty" validate:"omitempty"`
}

type AddShippingRequest struct {
	OrderID int `json:"order_id" validate:"required,gt=0"`
	ShippingRequest
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid processing shipped delivered cancelled refunded"`
}

// OrderFilter selects orders by equality; nil fields are not filtered on
type OrderFilter struct {
	Status *string
	UserID *int
}
