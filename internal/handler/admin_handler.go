package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"task_manager/internal/middleware"
	"task_manager/internal/model"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgAdminBadCredentials = "Credenciales incorrectas"
	msgAdminLogin          = "Inicio de sesión exitoso. Bienvenido al panel de administración."
	msgAdminVerified       = "Sesión válida"
	msgAdminProfile        = "Perfil de administrador obtenido exitosamente"
	msgAdminProfileUpdated = "Perfil de administrador actualizado exitosamente"
	msgUsersFetched        = "Usuarios obtenidos exitosamente"
	msgUsersFailed         = "Error al obtener usuarios"
	msgUserFetched         = "Usuario obtenido exitosamente"
	msgUserCreated         = "Usuario creado exitosamente"
	msgUserUpdated         = "Usuario actualizado exitosamente"
	msgUserDeleted         = "Usuario eliminado exitosamente"
	msgUserFailed          = "Error al procesar el usuario"
	msgExportFailed        = "Error al exportar usuarios"
)

// AdminHandler serves the admin panel API
type AdminHandler struct {
	service service.AdminService
	cookies CookieConfig
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService, cookies CookieConfig) *AdminHandler {
	return &AdminHandler{service: s, cookies: cookies}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, token, err := h.service.Login(c.Request.Context(), req.Identification, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": msgAdminBadCredentials})
			return
		}
		respondError(c, err, msgInternal)
		return
	}

	log.Printf("INFO: [%s] admin %d logged in", middleware.GetRequestID(c), admin.ID)
	h.cookies.set(c, middleware.AdminTokenCookie, token)
	c.JSON(http.StatusOK, gin.H{
		"mensaje":       msgAdminLogin,
		"token":         token,
		"administrador": admin,
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	h.cookies.clear(c, middleware.AdminTokenCookie)
	c.JSON(http.StatusOK, gin.H{"mensaje": msgLogoutSuccessful})
}

// Verify confirms the admin session; the middleware has already loaded the admin
func (h *AdminHandler) Verify(c *gin.Context) {
	admin, ok := middleware.AuthAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"mensaje": middleware.MsgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mensaje":       msgAdminVerified,
		"autenticado":   true,
		"administrador": admin,
	})
}

func (h *AdminHandler) GetProfile(c *gin.Context) {
	adminID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	admin, err := h.service.Profile(c.Request.Context(), adminID)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgAdminProfile, "administrador": admin})
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	adminID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	var req model.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.service.UpdateProfile(c.Request.Context(), adminID, req)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgAdminProfileUpdated, "administrador": admin})
}

func (h *AdminHandler) respondAdminError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgAdminNotFound})
		return
	}
	respondError(c, err, msgInternal)
}

// parseAccountFilter reads the listing parameters. Malformed numbers and dates
// are ignored and the repository defaults apply.
func parseAccountFilter(c *gin.Context) model.AccountFilter {
	var filter model.AccountFilter

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		filter.PerPage = perPage
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	filter.SortBy = c.Query("sort")
	if filter.SortBy == "" {
		filter.SortBy = c.Query("sort_by")
	}
	filter.Order = c.Query("order")

	if d := queryDate(c, "date_from"); d != nil {
		t := d.Time
		filter.DateFrom = &t
	}
	if d := queryDate(c, "date_to"); d != nil {
		t := d.Time
		filter.DateTo = &t
	}
	return filter
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.service.ListUsers(c.Request.Context(), parseAccountFilter(c))
	if err != nil {
		respondError(c, err, msgUsersFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje":      msgUsersFetched,
		"usuarios":     page.Items,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.CurrentPage,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgUserNotFound})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, msgUserFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgUserFetched, "usuario": user})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req model.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, msgUserFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": msgUserCreated, "usuario": user})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgUserNotFound})
		return
	}

	var req model.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, msgUserFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgUserUpdated, "usuario": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgUserNotFound})
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err, msgUserFailed)
		return
	}
	log.Printf("INFO: [%s] user %d deleted", middleware.GetRequestID(c), userID)
	c.JSON(http.StatusOK, gin.H{"mensaje": msgUserDeleted})
}

func (h *AdminHandler) ExportUsersCSV(c *gin.Context) {
	csvBuffer, err := h.service.ExportUsersCSV(c.Request.Context(), parseAccountFilter(c))
	if err != nil {
		respondError(c, err, msgExportFailed)
		return
	}

	fileName := fmt.Sprintf("usuarios_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterAdminRoutes registers the admin panel routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, adminMW gin.HandlersChain) {
	api := rg.Group("/api")
	{
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)

		protected := api.Group("", adminMW...)
		protected.GET("/verificar", h.Verify)
		protected.GET("/perfil", h.GetProfile)
		protected.PUT("/perfil", h.UpdateProfile)

		protected.GET("/usuarios", h.ListUsers)
		protected.POST("/usuarios", h.CreateUser)
		protected.GET("/usuarios/:id", h.GetUser)
		protected.PUT("/usuarios/:id", h.UpdateUser)
		protected.DELETE("/usuarios/:id", h.DeleteUser)

		protected.GET("/exportar/usuarios", h.ExportUsersCSV)
	}
}
