package handler

import (
	"errors"
	"net/http"

	"task_manager/internal/middleware"
	"task_manager/internal/model"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUserBadCredentials = "Usuario o contraseña incorrectos"
	msgRegistered         = "Usuario registrado exitosamente"
	msgLoginSuccessful    = "Inicio de sesión exitoso"
	msgProfileFetched     = "Perfil obtenido exitosamente"
	msgProfileUpdated     = "Perfil actualizado exitosamente"
)

// AuthHandler handles end user authentication and profile requests
type AuthHandler struct {
	service service.AuthService
	cookies CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: s, cookies: cookies}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje": msgRegistered,
		"usuario": user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Identification, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": msgUserBadCredentials})
			return
		}
		respondError(c, err, msgInternal)
		return
	}

	h.cookies.set(c, middleware.UserTokenCookie, token)
	c.JSON(http.StatusOK, gin.H{
		"mensaje": msgLoginSuccessful,
		"token":   token,
		"usuario": user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.clear(c, middleware.UserTokenCookie)
	c.JSON(http.StatusOK, gin.H{"mensaje": msgLogoutSuccessful})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.AuthAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"mensaje": middleware.MsgUnauthorized})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgProfileFetched, "usuario": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.AuthAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"mensaje": middleware.MsgUnauthorized})
		return
	}

	var req model.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Error al procesar la solicitud")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgProfileUpdated, "usuario": user})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlersChain) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/registro", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)

		profile := authGroup.Group("/perfil", authMW...)
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}
