package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/http/middleware"
	"github.com/casafolio/go-property-backend/internal/http/validate"
	"github.com/casafolio/go-property-backend/internal/services"
)

// AuthHandler serves account registration, login, and identity echo. These
// endpoints sit behind the per-address auth rate-limit class; they are where
// anonymous callers become identities.
type AuthHandler struct {
	accounts  *services.AccountService
	issuer    *auth.Issuer
	responder Responder
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(accounts *services.AccountService, issuer *auth.Issuer, responder Responder) *AuthHandler {
	return &AuthHandler{accounts: accounts, issuer: issuer, responder: responder}
}

// sessionBody is the response for register and login: the account plus a
// bearer token for it.
type sessionBody struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	in, err := validate.Body[services.RegisterInput](c)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}

	u, err := h.accounts.Register(c.Request.Context(), *in)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	tok, err := h.issuer.Issue(*u, time.Now())
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionBody{User: u, Token: tok})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	in, err := validate.Body[services.LoginInput](c)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}

	u, err := h.accounts.Login(c.Request.Context(), *in)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	tok, err := h.issuer.Issue(*u, time.Now())
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionBody{User: u, Token: tok})
}

// Me handles GET /auth/me. Mounted behind RequireAuth; answers with the
// stored account, not just the token claims, so a stale token still shows
// current account state.
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := middleware.MustIdentity(c)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	u, err := h.accounts.Get(c.Request.Context(), id.ID)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
