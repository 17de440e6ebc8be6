package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carnet/internal/logging"
	"carnet/internal/middleware"
	"carnet/internal/models"
	"carnet/internal/services"
)

type AuthHandler struct {
	auth   services.AuthService
	resets services.PasswordResetService
	log    logging.Logger
}

func NewAuthHandler(auth services.AuthService, resets services.PasswordResetService, log logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, resets: resets, log: log.With("handler", "auth")}
}

// @Summary      Log in
// @Description  Exchanges credentials for a bearer token valid for 24 hours
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  models.IssuedToken
// @Failure      400    {object}  map[string]string
// @Failure      422    {object}  map[string][]validation.FieldError
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// @Summary      Log out
// @Description  Revokes the bearer token used for this request
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  map[string]string
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// @Summary      Forgot password
// @Description  Emails a password reset link valid for 15 minutes
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string][]validation.FieldError
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reset password email sent"})
}

// @Summary      Reset password
// @Tags         Auth
// @Accept       json
// @Param        token  path  string                       true  "Reset token"
// @Param        body   body  models.ResetPasswordRequest  true  "New password"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string][]validation.FieldError
// @Router       /reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.resets.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
