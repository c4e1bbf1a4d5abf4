package services

import (
	"context"
	"errors"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// AdminGate decides whether a verified principal may perform a privileged action.
// The role claimed by the token is ignored, the stored role is read on every call.
type AdminGate struct {
	logger    *gecho.Logger
	roles     RoleReader
	adminRole string
}

func NewAdminGate(logger *gecho.Logger, cfg *structs.Config, roles RoleReader) *AdminGate {
	return &AdminGate{
		logger:    logger,
		roles:     roles,
		adminRole: cfg.Auth.AdminRole,
	}
}

// Require returns nil when the stored role of principal equals the admin role.
// A missing user or any other role is lib.ErrNotAdmin, a storage failure is lib.ErrDatabase.
func (g *AdminGate) Require(ctx context.Context, principal *structs.Principal) error {
	if principal == nil {
		return lib.ErrMissingToken
	}

	role, err := g.roles.GetUserRole(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			g.logger.Warn("Admin check for unknown user", gecho.Field("user_id", principal.UserID))
			return lib.ErrNotAdmin
		}
		g.logger.Error("Failed to read user role", gecho.Field("user_id", principal.UserID), gecho.Field("error", err.Error()))
		return lib.Database(err)
	}

	if role == nil || *role != g.adminRole {
		g.logger.Warn("Admin access denied", gecho.Field("user_id", principal.UserID))
		return lib.ErrNotAdmin
	}
	return nil
}
