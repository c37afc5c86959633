package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"task_manager/internal/middleware"
	"task_manager/internal/model"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgValidation       = "Error en la validación de datos"
	msgInvalidBody      = "No se recibieron datos. Por favor asegúrese de enviar los datos en formato JSON."
	msgInternal         = "Error interno del servidor. Por favor intente nuevamente más tarde."
	msgUserNotFound     = "Usuario no encontrado"
	msgAdminNotFound    = "Administrador no encontrado"
	msgTaskNotFound     = "Tarea no encontrada"
	msgRouteNotFound    = "Recurso no encontrado"
	msgLogoutSuccessful = "Sesión cerrada exitosamente"
)

// CookieConfig controls the session cookies set on login
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

func (cc CookieConfig) set(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(cc.MaxAge.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", cc.Secure, true)
}

// bindJSON decodes the request body, answering 400 when it is missing or malformed
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": msgInvalidBody})
		return false
	}
	return true
}

// respondError maps service errors onto the response envelope. Unexpected
// errors are logged and reported with failMsg.
func respondError(c *gin.Context, err error, failMsg string) {
	var verr *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": msgValidation, "errores": verr.Fields})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, gin.H{
			"mensaje": conflict.Message,
			"errores": gin.H{conflict.Field: conflict.Message},
		})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgTaskNotFound})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgUserNotFound})
	default:
		log.Printf("ERROR: [%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": failMsg})
	}
}

// pathID parses the :id segment; an unparsable ID behaves like a missing row
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryDate parses a YYYY-MM-DD query parameter; invalid values are ignored
func queryDate(c *gin.Context, key string) *model.Date {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

// NoRoute answers unknown paths with the envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"mensaje": msgRouteNotFound})
}

// Recovery turns panics into a 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("ERROR: [%s] panic serving %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"mensaje": msgInternal})
	})
}
