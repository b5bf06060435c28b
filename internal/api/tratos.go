package api

import (
	"errors"
	"net/http"
	"strconv"

	"crm-gateway/internal/models"
	"crm-gateway/internal/scheduler"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type TratoHandler struct {
	DB  *gorm.DB
	Svc *scheduler.Service
}

func NewTratoHandler(db *gorm.DB, svc *scheduler.Service) *TratoHandler {
	return &TratoHandler{DB: db, Svc: svc}
}

func (h *TratoHandler) GetTratos(c *gin.Context) {
	var tratos []models.Trato
	if err := h.DB.Order("updated_at DESC").Find(&tratos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tratos == nil {
		tratos = []models.Trato{}
	}
	c.JSON(http.StatusOK, tratos)
}

type CreateTratoRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	EmpresaID   uint    `json:"empresa_id" binding:"required"`
	ContactoID  uint    `json:"contacto_id"`
	Monto       float64 `json:"monto"`
	Descripcion string  `json:"descripcion"`
}

func (h *TratoHandler) CreateTrato(c *gin.Context) {
	var req CreateTratoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trato := models.Trato{
		Nombre:        req.Nombre,
		PropietarioID: Auth(c).UsuarioID,
		EmpresaID:     req.EmpresaID,
		ContactoID:    req.ContactoID,
		Monto:         req.Monto,
		Descripcion:   req.Descripcion,
		Fase:          models.FaseProspeccion,
	}
	if err := h.DB.Create(&trato).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el trato"})
		return
	}
	c.JSON(http.StatusCreated, trato)
}

// Detalle is the deal-detail screen payload: the deal and its related
// collections, assembled in one response.
type Detalle struct {
	Trato     models.Trato         `json:"trato"`
	Contacto  *models.Contacto     `json:"contacto,omitempty"`
	Llamadas  []models.Actividad   `json:"llamadas"`
	Reuniones []models.Actividad   `json:"reuniones"`
	Tareas    []models.Actividad   `json:"tareas"`
	Historial []models.Interaccion `json:"historial"`
	Notas     []models.Nota        `json:"notas"`
}

// GetDetalle loads the deal and its related collections concurrently.
// Emails and quotations are secondary data with their own endpoints, so the
// screen renders before they arrive.
func (h *TratoHandler) GetDetalle(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var trato models.Trato
	if err := h.DB.First(&trato, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trato no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	detalle := Detalle{Trato: trato}
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		if trato.ContactoID == 0 {
			return nil
		}
		var contacto models.Contacto
		if err := h.DB.WithContext(ctx).First(&contacto, trato.ContactoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		detalle.Contacto = &contacto
		return nil
	})
	g.Go(func() error {
		acts, err := h.Svc.Abiertas(ctx, trato.ID, models.TipoLlamada)
		detalle.Llamadas = acts
		return err
	})
	g.Go(func() error {
		acts, err := h.Svc.Abiertas(ctx, trato.ID, models.TipoReunion)
		detalle.Reuniones = acts
		return err
	})
	g.Go(func() error {
		acts, err := h.Svc.Abiertas(ctx, trato.ID, models.TipoTarea)
		detalle.Tareas = acts
		return err
	})
	g.Go(func() error {
		hist, err := h.Svc.Historial(ctx, trato.ID)
		detalle.Historial = hist
		return err
	})
	g.Go(func() error {
		var notas []models.Nota
		err := h.DB.WithContext(ctx).Where("trato_id = ?", trato.ID).Order("created_at DESC").Find(&notas).Error
		if notas == nil {
			notas = []models.Nota{}
		}
		detalle.Notas = notas
		return err
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detalle)
}

type UpdateTratoRequest struct {
	Nombre      string  `json:"nombre"`
	ContactoID  uint    `json:"contacto_id"`
	Monto       float64 `json:"monto"`
	Descripcion string  `json:"descripcion"`
}

func (h *TratoHandler) UpdateTrato(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req UpdateTratoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var trato models.Trato
	if err := h.DB.First(&trato, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trato no encontrado"})
		return
	}

	trato.Nombre = req.Nombre
	trato.ContactoID = req.ContactoID
	trato.Monto = req.Monto
	trato.Descripcion = req.Descripcion
	if err := h.DB.Save(&trato).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el trato"})
		return
	}
	c.JSON(http.StatusOK, trato)
}

type CambiarFaseRequest struct {
	Fase string `json:"fase" binding:"required"`
	// PropietarioID carries the owner decided by the escalation rules that
	// live outside this service; when present it is reflected as-is.
	PropietarioID uint `json:"propietario_id"`
}

// CambiarFase moves the deal to another pipeline phase. The phase must belong
// to the fixed ordered set; owner escalation is reflected, never computed
// here.
func (h *TratoHandler) CambiarFase(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req CambiarFaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidFase(req.Fase) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fase desconocida"})
		return
	}

	var trato models.Trato
	if err := h.DB.First(&trato, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trato no encontrado"})
		return
	}

	trato.Fase = req.Fase
	if req.PropietarioID != 0 {
		trato.PropietarioID = req.PropietarioID
	}
	if err := h.DB.Save(&trato).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cambiar la fase"})
		return
	}
	c.JSON(http.StatusOK, trato)
}

func (h *TratoHandler) DeleteTrato(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	result := h.DB.Delete(&models.Trato{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el trato"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trato no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Trato eliminado"})
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
