package api

import (
	"net/http"

	"crm-gateway/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotaHandler struct {
	DB *gorm.DB
}

func NewNotaHandler(db *gorm.DB) *NotaHandler {
	return &NotaHandler{DB: db}
}

func (h *NotaHandler) GetNotas(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var notas []models.Nota
	if err := h.DB.Where("trato_id = ?", id).Order("created_at DESC").Find(&notas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if notas == nil {
		notas = []models.Nota{}
	}
	c.JSON(http.StatusOK, notas)
}

type NotaRequest struct {
	Contenido string `json:"contenido" binding:"required"`
}

func (h *NotaHandler) CreateNota(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req NotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nota := models.Nota{
		TratoID:   id,
		AutorID:   Auth(c).UsuarioID,
		Contenido: req.Contenido,
	}
	if err := h.DB.Create(&nota).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la nota"})
		return
	}
	c.JSON(http.StatusCreated, nota)
}

// UpdateNota edits a note in place and records who edited it.
func (h *NotaHandler) UpdateNota(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req NotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var nota models.Nota
	if err := h.DB.First(&nota, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nota no encontrada"})
		return
	}

	editor := Auth(c).UsuarioID
	nota.Contenido = req.Contenido
	nota.EditadoPorID = &editor
	if err := h.DB.Save(&nota).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la nota"})
		return
	}
	c.JSON(http.StatusOK, nota)
}

func (h *NotaHandler) DeleteNota(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	result := h.DB.Delete(&models.Nota{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la nota"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nota no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Nota eliminada"})
}
