package handler

import (
	"net/http"
	"strings"

	"task_manager/internal/middleware"
	"task_manager/internal/model"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgTasksFetched = "Tareas obtenidas exitosamente"
	msgTasksFailed  = "Error al obtener tareas"
	msgTaskCreated  = "Tarea creada exitosamente"
	msgTaskFetched  = "Tarea obtenida exitosamente"
	msgTaskUpdated  = "Tarea actualizada exitosamente"
	msgTaskDeleted  = "Tarea eliminada exitosamente"
	msgTaskFailed   = "Error al procesar la tarea"
)

// TaskHandler handles the caller's task requests
type TaskHandler struct {
	service service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.AuthAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"mensaje": middleware.MsgUnauthorized})
	}
	return userID, ok
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	filter := model.TaskFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		DateFrom: queryDate(c, "date_from"),
		DateTo:   queryDate(c, "date_to"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
	}

	tasks, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, msgTasksFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgTasksFetched, "tareas": tasks})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	var req model.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, msgTaskFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": msgTaskCreated, "tarea": task})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgTaskNotFound})
		return
	}

	task, err := h.service.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err, msgTaskFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgTaskFetched, "tarea": task})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgTaskNotFound})
		return
	}

	var req model.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.service.Update(c.Request.Context(), userID, taskID, req)
	if err != nil {
		respondError(c, err, msgTaskFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgTaskUpdated, "tarea": task})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": msgTaskNotFound})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err, msgTaskFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": msgTaskDeleted})
}

// RegisterTaskRoutes registers task routes
func (h *TaskHandler) RegisterTaskRoutes(rg *gin.RouterGroup, authMW gin.HandlersChain) {
	taskRoutes := rg.Group("/tareas", authMW...)
	{
		taskRoutes.GET("/", h.ListTasks)
		taskRoutes.POST("/", h.CreateTask)
		taskRoutes.GET("/:id", h.GetTask)
		taskRoutes.PUT("/:id", h.UpdateTask)
		taskRoutes.DELETE("/:id", h.DeleteTask)
	}
}
