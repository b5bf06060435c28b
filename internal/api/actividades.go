package api

import (
	"errors"
	"net/http"
	"strconv"

	"crm-gateway/internal/models"
	"crm-gateway/internal/scheduler"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActividadHandler struct {
	DB  *gorm.DB
	Svc *scheduler.Service
}

func NewActividadHandler(db *gorm.DB, svc *scheduler.Service) *ActividadHandler {
	return &ActividadHandler{DB: db, Svc: svc}
}

// CreateActividad schedules a new activity. The assignee defaults to the
// authenticated user.
func (h *ActividadHandler) CreateActividad(c *gin.Context) {
	var req scheduler.Solicitud
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AsignadoID == 0 {
		req.AsignadoID = Auth(c).UsuarioID
	}

	act, err := h.Svc.Programar(c.Request.Context(), req)
	if err != nil {
		h.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, act)
}

// UpdateActividad reschedules an open activity in place.
func (h *ActividadHandler) UpdateActividad(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req scheduler.Solicitud
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AsignadoID == 0 {
		req.AsignadoID = Auth(c).UsuarioID
	}

	act, err := h.Svc.Reprogramar(c.Request.Context(), id, req)
	if err != nil {
		h.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, act)
}

// CompletarActividad closes an activity with its outcome and returns the
// interaction appended to the history.
func (h *ActividadHandler) CompletarActividad(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var d scheduler.Desenlace
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interaccion, err := h.Svc.Completar(c.Request.Context(), id, d)
	if err != nil {
		h.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, interaccion)
}

// EditarInteraccion corrects a historical record in place.
func (h *ActividadHandler) EditarInteraccion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var d scheduler.Desenlace
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interaccion, err := h.Svc.EditarInteraccion(c.Request.Context(), id, d)
	if err != nil {
		h.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, interaccion)
}

func (h *ActividadHandler) DeleteActividad(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if err := h.Svc.Eliminar(c.Request.Context(), id); err != nil {
		h.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Actividad eliminada"})
}

// GetActividades lists the open activities of one kind for a deal.
func (h *ActividadHandler) GetActividades(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	tipo := c.Query("tipo")
	acts, err := h.Svc.Abiertas(c.Request.Context(), id, tipo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, acts)
}

// GetHistorial lists the interaction history for a deal.
func (h *ActividadHandler) GetHistorial(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	hist, err := h.Svc.Historial(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, hist)
}

// CheckConflicto is the advisory pre-check the schedule form polls while the
// user types a date/time: does the assignee already have an open activity at
// that slot?
func (h *ActividadHandler) CheckConflicto(c *gin.Context) {
	asignado, err := strconv.ParseUint(c.Query("asignado"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asignado inválido"})
		return
	}
	fecha := c.Query("fecha")
	hora := c.Query("hora")
	if fecha == "" || hora == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fecha y hora son obligatorias"})
		return
	}

	var count int64
	err = h.DB.Model(&models.Actividad{}).
		Where("asignado_id = ? AND fecha = ? AND hora = ? AND estado <> ?",
			uint(asignado), fecha, hora, models.EstadoCompletada).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conflicto": count > 0})
}

func (h *ActividadHandler) errorResponse(c *gin.Context, err error) {
	var campos scheduler.FieldErrors
	switch {
	case errors.As(err, &campos):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "campos": campos})
	case errors.Is(err, scheduler.ErrConflictoAgenda):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrActividadCerrada):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrNoEncontrada):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
