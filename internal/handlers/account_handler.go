package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/services"
)

type AccountHandler struct {
	accounts services.AccountService
	log      logging.Logger
}

func NewAccountHandler(accounts services.AccountService, log logging.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log.With("handler", "account")}
}

// @Summary      Sign up
// @Description  Creates an account and sends a verification email
// @Tags         Account
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "New account"
// @Success      201     {object}  models.User
// @Failure      400     {object}  map[string]string
// @Failure      422     {object}  map[string][]validation.FieldError
// @Router       /signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.accounts.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Verify email
// @Tags         Account
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  map[string]bool
// @Failure      404    {object}  map[string]string
// @Router       /verify/{token} [get]
func (h *AccountHandler) Verify(c *gin.Context) {
	if err := h.accounts.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// @Summary      Resend verification email
// @Tags         Account
// @Produce      json
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /resend-verification-email/{email} [get]
func (h *AccountHandler) ResendVerification(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	already, err := h.accounts.ResendVerification(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "email address already verified"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification email resent"})
}
