package structs

type CreateProductRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=255"`
	Description    *string `json:"description,omitempty"`
	Price          int64   `json:"price" validate:"gte=0"` // in cents
	CategoryID     *int    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	PrimaryImageID *int    `json:"primary_image_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *int    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
}

// ProductFilter selects products by equality; nil fields are not filtered on
type ProductFilter struct {
	ProductID  *int
	CategoryID *int
}

// UpdateImageRequest leaves absent fields unchanged, an explicit null clears the column
type UpdateImageRequest struct {
	ID        int           `json:"id" validate:"required,gt=0"`
	ProductID Nullable[int] `json:"product_id"`
	Position  Nullable[int] `json:"position"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type SizeQuantities struct {
	SingleSize int `json:"single_size" validate:"gte=0"`
	S          int `json:"s" validate:"gte=0"`
	M          int `json:"m" validate:"gte=0"`
	L          int `json:"l" validate:"gte=0"`
	XL         int `json:"xl" validate:"gte=0"`
	XXL        int `json:"xxl" validate:"gte=0"`
}

type CreateSizeRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	SizeQuantities
}
