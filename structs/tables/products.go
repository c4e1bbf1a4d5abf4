package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull,unique" json:"name"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Product struct {
	bun.BaseModel  `bun:"table:products,alias:p"`
	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Description    *string   `bun:"description" json:"description"`
	Price          int64     `bun:"price,notnull" json:"price"` // stored in cents
	PrimaryImageID *int      `bun:"primary_image_id" json:"primary_image_id"`
	CategoryID     *int      `bun:"category_id" json:"category_id"`
	SizeID         *int      `bun:"size_id" json:"size_id"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ProductImage is a stored image. Position 1 marks the primary image of its product.
type ProductImage struct {
	bun.BaseModel `bun:"table:product_images,alias:pi"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	ProductID     *int      `bun:"product_id" json:"product_id"`
	ImageURL      string    `bun:"image_url,notnull" json:"image_url"`
	Position      *int      `bun:"position" json:"position"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type ProductSize struct {
	bun.BaseModel `bun:"table:product_sizes,alias:ps"`
	ID            int `bun:"id,pk,autoincrement" json:"id"`
	ProductID     int `bun:"product_id,notnull" json:"product_id"`
	SingleSize    int `bun:"single_size,notnull,default:0" json:"single_size"`
	S             int `bun:"s,notnull,default:0" json:"s"`
	M             int `bun:"m,notnull,default:0" json:"m"`
	L             int `bun:"l,notnull,default:0" json:"l"`
	XL            int `bun:"xl,notnull,default:0" json:"xl"`
	XXL           int `bun:"xxl,notnull,default:0" json:"xxl"`
}

const PrimaryPosition = 1
