package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"crm-gateway/internal/models"
	"crm-gateway/internal/richtext"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlantillaHandler struct {
	DB       *gorm.DB
	Uploader richtext.Uploader
}

func NewPlantillaHandler(db *gorm.DB, up richtext.Uploader) *PlantillaHandler {
	return &PlantillaHandler{DB: db, Uploader: up}
}

func (h *PlantillaHandler) GetPlantillas(c *gin.Context) {
	var plantillas []models.Plantilla
	if err := h.DB.Order("updated_at DESC").Find(&plantillas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if plantillas == nil {
		plantillas = []models.Plantilla{}
	}
	c.JSON(http.StatusOK, plantillas)
}

func (h *PlantillaHandler) GetPlantilla(c *gin.Context) {
	var plantilla models.Plantilla
	if err := h.DB.First(&plantilla, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plantilla no encontrada"})
		return
	}
	c.JSON(http.StatusOK, plantilla)
}

// PlantillaRequest accepts either pre-rendered HTML in cuerpo or a composer
// document, which is rendered server side.
type PlantillaRequest struct {
	Nombre    string             `json:"nombre" binding:"required"`
	Asunto    string             `json:"asunto"`
	Cuerpo    string             `json:"cuerpo"`
	Documento *richtext.Document `json:"documento"`
	Adjuntos  []string           `json:"adjuntos"`
}

func (r *PlantillaRequest) cuerpoHTML() string {
	if r.Documento != nil {
		return richtext.Render(*r.Documento)
	}
	return r.Cuerpo
}

func adjuntosJSON(adjuntos []string) string {
	if adjuntos == nil {
		adjuntos = []string{}
	}
	data, _ := json.Marshal(adjuntos)
	return string(data)
}

func (h *PlantillaHandler) CreatePlantilla(c *gin.Context) {
	var req PlantillaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plantilla := models.Plantilla{
		ID:       uuid.NewString(),
		Nombre:   req.Nombre,
		Asunto:   req.Asunto,
		Cuerpo:   req.cuerpoHTML(),
		Adjuntos: adjuntosJSON(req.Adjuntos),
	}
	if err := h.DB.Create(&plantilla).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la plantilla"})
		return
	}
	c.JSON(http.StatusCreated, plantilla)
}

func (h *PlantillaHandler) UpdatePlantilla(c *gin.Context) {
	var plantilla models.Plantilla
	if err := h.DB.First(&plantilla, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plantilla no encontrada"})
		return
	}
	var req PlantillaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plantilla.Nombre = req.Nombre
	plantilla.Asunto = req.Asunto
	plantilla.Cuerpo = req.cuerpoHTML()
	plantilla.Adjuntos = adjuntosJSON(req.Adjuntos)
	if err := h.DB.Save(&plantilla).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la plantilla"})
		return
	}
	c.JSON(http.StatusOK, plantilla)
}

func (h *PlantillaHandler) DeletePlantilla(c *gin.Context) {
	result := h.DB.Delete(&models.Plantilla{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la plantilla"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plantilla no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Plantilla eliminada"})
}

// UploadImagen stores an editor image and returns its public URL. The MIME
// and size gates run before the asset store is contacted; the limit depends
// on the editing surface (template editor by default, compose via ?editor=correo).
func (h *PlantillaHandler) UploadImagen(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	limit := richtext.MaxImagenPlantilla
	if c.Query("editor") == "correo" {
		limit = richtext.MaxImagenCorreo
	}

	doc := richtext.Document{}
	doc, err = richtext.InsertImage(c.Request.Context(), doc, 0, data, header.Header.Get("Content-Type"), header.Filename, limit, h.Uploader)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, richtext.ErrTipoImagen) || errors.Is(err, richtext.ErrImagenGrande) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": doc.Blocks[0].Src})
}
