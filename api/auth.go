package api

import (
	"net/http"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/service/auth"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service    auth.AuthUseCase
	cookieName string
	cookieTTL  int
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	SessionID string          `json:"sessionId"`
	Profile   session.Profile `json:"profile"`
	Home      string          `json:"home"`
}

// NewAuthHandler builds the auth endpoints. cookieTTL is in seconds; zero
// makes the session cookie last for the browser session.
func NewAuthHandler(service auth.AuthUseCase, cookieName string, cookieTTL int) *AuthHandler {
	return &AuthHandler{service: service, cookieName: cookieName, cookieTTL: cookieTTL}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	group := router.Group("/auth")
	group.POST("/login", h.login)
	group.POST("/register/user", h.registerUser)
	group.POST("/register/owner", h.registerOwner)
	group.POST("/logout", h.logout)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cookieName != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, sess.ID, h.cookieTTL, "/", "", false, true)
	}
	c.JSON(http.StatusOK, loginResponse{SessionID: sess.ID, Profile: sess.Profile, Home: sess.Profile.Home()})
}

func (h *AuthHandler) registerUser(c *gin.Context) {
	var req auth.UserRegistration
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *AuthHandler) registerOwner(c *gin.Context) {
	var req auth.OwnerRegistration
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, domain.Validation("invalid registration form: %v", err))
		return
	}

	var image *auth.Image
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			respondError(c, domain.Validation("unreadable image upload"))
			return
		}
		defer f.Close()
		image = &auth.Image{Filename: fh.Filename, Content: f}
	}

	reg, err := h.service.RegisterOwner(c.Request.Context(), req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// logout succeeds even without a session.
func (h *AuthHandler) logout(c *gin.Context) {
	if sess := CurrentSession(c); sess != nil {
		if err := h.service.Logout(c.Request.Context(), sess.ID); err != nil {
			respondError(c, err)
			return
		}
	}
	if h.cookieName != "" {
		c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	}
	c.Status(http.StatusNoContent)
}
