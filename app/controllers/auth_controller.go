package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a user account.
// POST /api/auth/register
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.Bind(&in) {
		return
	}
	user, err := ac.auth.Register(c.Ctx(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(user)
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and sets the session cookie.
// POST /api/auth/login
func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.Bind(&in) {
		return
	}
	user, token, err := ac.auth.Login(c.Ctx(), in.Username, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     config.AuthCookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(config.TokenTTL()),
		HttpOnly: true,
		Secure:   config.AuthCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Success(map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side session state.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *ctx.Context) {
	c.SetCookie(&http.Cookie{
		Name:     config.AuthCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.AuthCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Message("Logged out")
}

// Me returns the authenticated user's profile.
// GET /api/auth/me
func (ac *AuthController) Me(c *ctx.Context) {
	user, err := ac.auth.Profile(c.Ctx(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

type sendOTPInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SendOTP issues a verification code to the account's email.
// POST /api/auth/send-otp
func (ac *AuthController) SendOTP(c *ctx.Context) {
	var in sendOTPInput
	if !c.Bind(&in) {
		return
	}
	if err := ac.auth.SendOTP(c.Ctx(), in.Email); err != nil {
		fail(c, err)
		return
	}
	c.Message("OTP sent")
}

type verifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,digits=6"`
}

// VerifyOTP checks the submitted code and marks the account verified.
// POST /api/auth/verify-otp
func (ac *AuthController) VerifyOTP(c *ctx.Context) {
	var in verifyOTPInput
	if !c.Bind(&in) {
		return
	}
	if err := ac.auth.VerifyOTP(c.Ctx(), in.Email, in.OTP); err != nil {
		fail(c, err)
		return
	}
	c.Message("Email verified")
}
