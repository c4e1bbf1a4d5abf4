package services

import (
	"context"
	"fmt"
	"net/url"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

var DefaultParams = &structs.ArgonParams{
	Memory:  64 * 1024, // 64 MB
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	users  database.UserStore
	mailer Mailer
	now    func() time.Time
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, users database.UserStore, mailer Mailer) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		users:  users,
		mailer: mailer,
		now:    time.Now,
	}
}

// Login checks the credentials and issues an access token. Unknown email and wrong password
// produce the same error.
func (as *AuthService) Login(ctx context.Context, req *structs.LoginRequest) (*structs.LoginResponse, error) {
	startTime := time.Now()

	user, err := as.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if lib.IsNotFound(err) {
			as.logger.Debug("Login for unknown email")
			return nil, lib.ErrInvalidCredentials
		}
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err.Error()))
		return nil, err
	}

	ok, err := as.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Stored password hash is unreadable", gecho.Field("user_id", user.ID), gecho.Field("error", err.Error()))
		return nil, lib.ErrInvalidCredentials
	}
	if !ok {
		as.logger.Debug("Login with wrong password", gecho.Field("user_id", user.ID))
		return nil, lib.ErrInvalidCredentials
	}

	token, exp, err := lib.IssueToken(user.ID, user.Role, as.cfg.Auth.AccessTokenSecret, as.now(), as.cfg.Auth.AccessTokenExpiry)
	if err != nil {
		as.logger.Error("Failed to sign access token", gecho.Field("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to sign token", lib.ErrInternal)
	}

	as.logger.Debug("User logged in", gecho.Field("user_id", user.ID), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))
	return &structs.LoginResponse{Token: token, ExpiresAt: exp}, nil
}

// StartRegistration mails a confirmation link carrying the pending account.
// No row is written until the link is opened.
func (as *AuthService) StartRegistration(ctx context.Context, req *structs.RegisterRequest) error {
	email := strings.TrimSpace(req.Email)

	if _, err := as.users.GetUserByEmail(ctx, email); err == nil {
		return lib.ErrEmailTaken
	} else if !lib.IsNotFound(err) {
		return err
	}

	hash, err := as.HashPassword(req.Password, DefaultParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err.Error()))
		return fmt.Errorf("%w: failed to hash password", lib.ErrInternal)
	}

	token, err := lib.IssueRegistrationToken(&structs.PendingRegistration{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}, as.cfg.Auth.RegistrationTokenSecret, as.now(), as.cfg.Auth.RegistrationTokenExpiry)
	if err != nil {
		as.logger.Error("Failed to sign registration token", gecho.Field("error", err.Error()))
		return fmt.Errorf("%w: failed to sign token", lib.ErrInternal)
	}

	link := strings.TrimRight(as.cfg.Server.PublicURL, "/") + "/api/registration?token=" + url.QueryEscape(token)
	if err := as.mailer.SendRegistrationLink(ctx, email, link); err != nil {
		as.logger.Error("Failed to send registration link", gecho.Field("error", err.Error()))
		return fmt.Errorf("%w: failed to send registration mail", lib.ErrInternal)
	}

	as.logger.Info("Registration link sent")
	return nil
}

// CompleteRegistration creates the account carried by a registration token
func (as *AuthService) CompleteRegistration(ctx context.Context, token string) (*tables.User, error) {
	if token == "" {
		return nil, lib.BadRequest("token is required")
	}

	pending, err := lib.ParseRegistrationToken(token, as.cfg.Auth.RegistrationTokenSecret, as.now())
	if err != nil {
		as.logger.Warn("Invalid registration token", gecho.Field("error", err.Error()))
		return nil, err
	}

	role := as.cfg.Auth.DefaultRole
	user := &tables.User{
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		PhoneNumber:  pending.PhoneNumber,
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Role:         &role,
	}
	if err := as.users.InsertUser(ctx, user); err != nil {
		as.logger.Warn("Failed to create user", gecho.Field("error", err.Error()))
		return nil, err
	}

	as.logger.Info("User registered successfully", gecho.Field("user_id", user.ID))
	user.PasswordHash = ""
	return user, nil
}

func (as *AuthService) Profile(ctx context.Context, userID int) (*tables.User, error) {
	user, err := as.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (as *AuthService) UpdateProfile(ctx context.Context, userID int, req *structs.UpdateProfileRequest) (*tables.User, error) {
	if err := as.users.UpdateProfile(ctx, userID, req); err != nil {
		as.logger.Warn("Failed to update profile", gecho.Field("user_id", userID), gecho.Field("error", err.Error()))
		return nil, err
	}
	return as.Profile(ctx, userID)
}

// UpdatePassword replaces the password after checking the current one
func (as *AuthService) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return lib.BadRequest("old_password and new_password are required")
	}
	if len(newPassword) < 8 {
		return lib.BadRequest("new_password must be at least 8 characters")
	}

	user, err := as.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := as.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil || !ok {
		return lib.ErrInvalidCredentials
	}

	hash, err := as.HashPassword(newPassword, DefaultParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err.Error()))
		return fmt.Errorf("%w: failed to hash password", lib.ErrInternal)
	}
	if err := as.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	as.logger.Info("Password updated", gecho.Field("user_id", userID))
	return nil
}

// UserRole returns the stored role, not the one in the token
func (as *AuthService) UserRole(ctx context.Context, userID int) (*string, error) {
	return as.users.GetUserRole(ctx, userID)
}

// EnsureAdmin creates the configured bootstrap admin account when it does not exist yet
func (as *AuthService) EnsureAdmin(ctx context.Context) error {
	a := as.cfg.Auth
	if a.AdminUsername == "" || a.AdminEmail == "" || a.AdminPassword == "" {
		return nil
	}

	existing, err := as.users.GetUserByEmail(ctx, a.AdminEmail)
	if err == nil {
		if existing.Role == nil || *existing.Role != a.AdminRole {
			as.logger.Warn("Bootstrap admin email belongs to a user without the admin role", gecho.Field("user_id", existing.ID))
		}
		return nil
	}
	if !lib.IsNotFound(err) {
		return err
	}

	hash, err := as.HashPassword(a.AdminPassword, DefaultParams)
	if err != nil {
		return err
	}
	role := a.AdminRole
	admin := &tables.User{
		Username:     a.AdminUsername,
		Email:        a.AdminEmail,
		PasswordHash: hash,
		Role:         &role,
	}
	if err := as.users.InsertUser(ctx, admin); err != nil {
		return err
	}

	as.logger.Info("Bootstrap admin account created", gecho.Field("user_id", admin.ID))
	return nil
}

// HashPassword hashes with the given argon2id parameters, DefaultParams for stored accounts
func (as *AuthService) HashPassword(password string, p *structs.ArgonParams) (string, error) {
	return lib.HashPassword(password, p)
}

func (as *AuthService) VerifyPassword(password, hashedPassword string) (bool, error) {
	return lib.VerifyPassword(password, hashedPassword)
}
