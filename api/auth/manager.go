package auth

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (rrm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	// Public routes
	r.Post("/login", rrm.HandleLogin)
	r.Post("/registration", rrm.HandleRegister)
	r.Get("/registration", rrm.HandleCompleteRegistration)

	// Protected routes for user data
	r.Group(func(r chi.Router) {
		r.Use(rrm.mw.Authenticate)
		r.Get("/user_role", rrm.HandleUserRole)
		r.Get("/profile", rrm.HandleGetProfile)
		r.Put("/profile", rrm.HandleUpdateProfile)
		r.Put("/update_password", rrm.HandleUpdatePassword)
	})
}
