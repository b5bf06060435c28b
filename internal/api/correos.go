package api

import (
	"encoding/json"
	"io"
	"net/http"

	"crm-gateway/internal/mailer"
	"crm-gateway/internal/models"
	"crm-gateway/internal/richtext"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorreoHandler struct {
	DB     *gorm.DB
	Mailer *mailer.Client
}

func NewCorreoHandler(db *gorm.DB, m *mailer.Client) *CorreoHandler {
	return &CorreoHandler{DB: db, Mailer: m}
}

// GetCorreos lists the email audit entries for a deal, newest first. This is
// secondary data: the detail screen fetches it after first render.
func (h *CorreoHandler) GetCorreos(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var correos []models.CorreoRegistro
	if err := h.DB.Where("trato_id = ?", id).Order("created_at DESC").Find(&correos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if correos == nil {
		correos = []models.CorreoRegistro{}
	}
	c.JSON(http.StatusOK, correos)
}

// UploadAdjunto stores an attachment with the mail provider and returns the
// URL to reference from a send or a template.
func (h *CorreoHandler) UploadAdjunto(c *gin.Context) {
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

	url, err := h.Mailer.SubirAdjunto(c.Request.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type EnviarCorreoRequest struct {
	TratoID       uint               `json:"trato_id" binding:"required"`
	Destinatarios []string           `json:"destinatarios" binding:"required"`
	Asunto        string             `json:"asunto"`
	Cuerpo        string             `json:"cuerpo"`
	Documento     *richtext.Document `json:"documento"`
	Adjuntos      []string           `json:"adjuntos"`
	PlantillaID   string             `json:"plantilla_id"`
}

// EnviarCorreo sends an email and records the audit entry. A template id
// fills empty fields with copy semantics: the template itself is never
// modified. Nothing is persisted when the provider rejects the send.
func (h *CorreoHandler) EnviarCorreo(c *gin.Context) {
	var req EnviarCorreoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cuerpo := req.Cuerpo
	if req.Documento != nil {
		cuerpo = richtext.Render(*req.Documento)
	}
	asunto := req.Asunto
	adjuntos := req.Adjuntos

	if req.PlantillaID != "" {
		var plantilla models.Plantilla
		if err := h.DB.First(&plantilla, "id = ?", req.PlantillaID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plantilla no encontrada"})
			return
		}
		if asunto == "" {
			asunto = plantilla.Asunto
		}
		if cuerpo == "" {
			cuerpo = plantilla.Cuerpo
		}
		if len(adjuntos) == 0 && plantilla.Adjuntos != "" {
			json.Unmarshal([]byte(plantilla.Adjuntos), &adjuntos)
		}
	}

	_, err := h.Mailer.Enviar(c.Request.Context(), mailer.Envio{
		Destinatarios: req.Destinatarios,
		Asunto:        asunto,
		Cuerpo:        cuerpo,
		Adjuntos:      adjuntos,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo enviar el correo: " + err.Error()})
		return
	}

	destinatarios, _ := json.Marshal(req.Destinatarios)
	registro := models.CorreoRegistro{
		ID:            uuid.NewString(),
		TratoID:       req.TratoID,
		Destinatarios: string(destinatarios),
		Asunto:        asunto,
		Cuerpo:        cuerpo,
		Adjuntos:      adjuntosJSON(adjuntos),
		Estado:        models.CorreoEnviado,
	}
	if err := h.DB.Create(&registro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "El correo se envió pero no se pudo registrar"})
		return
	}
	c.JSON(http.StatusCreated, registro)
}
