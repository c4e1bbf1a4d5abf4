package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int       `json:"id" bun:"id,pk,autoincrement"`
	Username      string    `json:"username" bun:"username,unique,notnull"`
	Email         string    `json:"email" bun:"email,unique,notnull"`
	PasswordHash  string    `json:"-" bun:"password_hash,notnull"`
	FirstName     *string   `json:"first_name" bun:"first_name"`
	LastName      *string   `json:"last_name" bun:"last_name"`
	Address       *string   `json:"address" bun:"address"`
	PhoneNumber   *string   `json:"phone_number" bun:"phone_number,unique"`
	Role          *string   `json:"role" bun:"role"`
	CreatedAt     time.Time `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `json:"updated_at" bun:"updated_at,notnull,default:current_timestamp"`
}
