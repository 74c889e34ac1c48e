package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"auth-service/internal/domain"
	"auth-service/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts service.AccountService
	tokens   service.TokenService
	logger   *logrus.Logger
}

func NewHandler(accounts service.AccountService, tokens service.TokenService, logger *logrus.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	api := router.Group("/api/auth")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		protected := api.Group("")
		protected.Use(h.requireToken())
		{
			protected.POST("/logout", h.logout)
			protected.POST("/logout-all", h.logoutAll)
			protected.GET("/profile", h.profile)
			protected.PUT("/change-password", h.changePassword)
		}
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}

	_, tokenValue, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse{Token: tokenValue})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// missing fields fail the same way as wrong credentials
		c.JSON(http.StatusBadRequest, badCredentialsBody())
		return
	}

	_, tokenValue, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			c.JSON(http.StatusBadRequest, badCredentialsBody())
			return
		}
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: tokenValue})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.tokens.Revoke(c.Request.Context(), presentedToken(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) logoutAll(c *gin.Context) {
	user := currentUser(c)
	if err := h.tokens.RevokeAll(c.Request.Context(), user.ID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) profile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Username:   user.Username,
		Email:      user.Email,
		DateJoined: user.JoinedAt.Format("2006-01-02"),
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), currentUser(c).ID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, service.FieldErrors{"old_password": {"wrong password"}})
			return
		}
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "password updated successfully",
	})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	if fe, ok := service.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, fe)
		return
	}
	h.logger.WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func badCredentialsBody() service.FieldErrors {
	return service.FieldErrors{"non_field_errors": {service.ErrBadCredentials.Error()}}
}

// bindingFieldErrors converts gin binding failures into the field-keyed map
// the rest of the API speaks.
func bindingFieldErrors(err error) service.FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return service.FieldErrors{"non_field_errors": {"invalid request body"}}
	}

	fe := service.FieldErrors{}
	for _, v := range verrs {
		field := snakeCase(v.Field())
		switch v.Tag() {
		case "required":
			fe.Add(field, "this field is required")
		case "email":
			fe.Add(field, "enter a valid email address")
		default:
			fe.Add(field, "invalid value")
		}
	}
	return fe
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(contextUserKey).(*domain.User)
}

func presentedToken(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}
