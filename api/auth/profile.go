package auth

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleUserRole reports the stored role, which may differ from the one in the token
func (ar *AuthRoutesManager) HandleUserRole(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handling.RespondError(w, ar.logger, lib.ErrMissingToken)
		return
	}

	role, err := ar.authService.UserRole(r.Context(), principal.UserID)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]*string{"role": role}), gecho.Send())
}

func (ar *AuthRoutesManager) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handling.RespondError(w, ar.logger, lib.ErrMissingToken)
		return
	}

	user, err := ar.authService.Profile(r.Context(), principal.UserID)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}

func (ar *AuthRoutesManager) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handling.RespondError(w, ar.logger, lib.ErrMissingToken)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProfileRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	user, err := ar.authService.UpdateProfile(r.Context(), principal.UserID, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Profile updated"), gecho.WithData(user), gecho.Send())
}

// HandleUpdatePassword handles PUT /update_password?old_password=&new_password=
func (ar *AuthRoutesManager) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handling.RespondError(w, ar.logger, lib.ErrMissingToken)
		return
	}

	oldPassword, err := handling.RequiredQuery(r, "old_password")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}
	newPassword, err := handling.RequiredQuery(r, "new_password")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.authService.UpdatePassword(r.Context(), principal.UserID, oldPassword, newPassword); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Password updated"), gecho.Send())
}
