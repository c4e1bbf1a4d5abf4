package auth

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleRegister handles POST /registration. The account is only created once the mailed link is opened.
func (ar *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	if err := ar.authService.StartRegistration(r.Context(), body); err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Check your email to activate your account"),
		gecho.Send(),
	)
}

// HandleCompleteRegistration handles GET /registration?token=
func (ar *AuthRoutesManager) HandleCompleteRegistration(w http.ResponseWriter, r *http.Request) {
	token, err := handling.RequiredQuery(r, "token")
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	user, err := ar.authService.CompleteRegistration(r.Context(), token)
	if err != nil {
		handling.RespondError(w, ar.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Account activated"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
