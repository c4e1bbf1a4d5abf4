package database

import (
	"context"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"
)

// UserRepo is the bun backed UserStore
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUserRole reads only the role column. It is the authoritative source for admin checks.
func (r *UserRepo) GetUserRole(ctx context.Context, userID int) (*string, error) {
	user, err := first(Query[tables.User](r.db).Select("role").Where("id", userID), ctx)
	if err != nil {
		return nil, err
	}
	return user.Role, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id int) (*tables.User, error) {
	return first(Query[tables.User](r.db).Where("id", id), ctx)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	return first(Query[tables.User](r.db).WhereRaw("lower(email) = ?", strings.ToLower(email)), ctx)
}

func (r *UserRepo) InsertUser(ctx context.Context, user *tables.User) error {
	_, err := Query[tables.User](r.db).Insert(ctx, user)
	return lib.MapPgError(err)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int, req *structs.UpdateProfileRequest) error {
	set := map[string]any{"updated_at": time.Now()}
	if req.FirstName != nil {
		set["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		set["last_name"] = *req.LastName
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.PhoneNumber != nil {
		set["phone_number"] = *req.PhoneNumber
	}
	return exactlyOne(Query[tables.User](r.db).Where("id", id).Update(ctx, set))
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	return exactlyOne(Query[tables.User](r.db).Where("id", id).Update(ctx, map[string]any{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}))
}
