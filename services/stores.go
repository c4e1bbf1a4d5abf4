package services

import (
	"context"
	"storefront_server/structs/tables"
)

// Collaborators the services depend on. database.UserRepo implements RoleReader.

// RoleReader reads the stored role of a user, ErrNotFound when the user does not exist
type RoleReader interface {
	GetUserRole(ctx context.Context, userID int) (*string, error)
}

// BlobStore persists uploaded image bytes and hands out their public URL
type BlobStore interface {
	Save(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Mailer sends transactional mail. Failures are logged by the caller and never undo a write.
type Mailer interface {
	SendOrderDetails(ctx context.Context, details *tables.OrderDetails) error
	SendRegistrationLink(ctx context.Context, email, link string) error
}
