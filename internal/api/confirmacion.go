package api

import (
	"errors"
	"log"
	"net/http"

	"crm-gateway/internal/confirmation"
	"crm-gateway/internal/models"
	"crm-gateway/internal/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Notification channels the schedule form can pick.
const (
	CanalNinguno  = "NINGUNO"
	CanalEmail    = "EMAIL"
	CanalWhatsApp = "WHATSAPP"
)

type ConfirmacionHandler struct {
	DB          *gorm.DB
	Notificador *notify.Notificador
}

func NewConfirmacionHandler(db *gorm.DB, n *notify.Notificador) *ConfirmacionHandler {
	return &ConfirmacionHandler{DB: db, Notificador: n}
}

type ConfirmacionRequest struct {
	Canal        string `json:"canal" binding:"required"`
	Reprogramada bool   `json:"reprogramada"`
}

// Confirmar runs the post-scheduling confirmation flow for a meeting: decline
// outright, or notify the contact by email or WhatsApp. The flow always
// completes; a failed send is reported in the body, not as an error status.
func (h *ConfirmacionHandler) Confirmar(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req ConfirmacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var act models.Actividad
	if err := h.DB.First(&act, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Actividad no encontrada"})
		return
	}
	var contacto models.Contacto
	if err := h.DB.First(&contacto, act.ContactoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contacto no encontrado"})
		return
	}

	completado := false
	flow := confirmation.New(act.ID, req.Reprogramada,
		confirmation.Reachability{
			TieneEmail:    contacto.TieneEmail(),
			TieneTelefono: contacto.TieneTelefono(),
		},
		h.Notificador, h.Notificador,
		func() { completado = true },
	)

	switch req.Canal {
	case CanalNinguno:
		flow.Decline()
		c.JSON(http.StatusOK, gin.H{"status": "Sin notificación", "completado": completado})

	case CanalEmail:
		flow.Accept()
		if err := flow.SendEmail(c.Request.Context()); err != nil {
			if errors.Is(err, confirmation.ErrCanalNoDisponible) {
				c.JSON(http.StatusConflict, gin.H{"error": "El contacto no tiene correo"})
				return
			}
			log.Printf("Meeting notification failed for actividad %d: %v", act.ID, err)
			c.JSON(http.StatusOK, gin.H{"status": "El envío falló", "enviado": false, "completado": completado})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Notificación enviada", "enviado": true, "completado": completado})

	case CanalWhatsApp:
		flow.Accept()
		url, err := flow.OpenWhatsApp(c.Request.Context())
		if err != nil {
			if errors.Is(err, confirmation.ErrCanalNoDisponible) {
				c.JSON(http.StatusConflict, gin.H{"error": "El contacto no tiene teléfono"})
				return
			}
			log.Printf("WhatsApp link failed for actividad %d: %v", act.ID, err)
			c.JSON(http.StatusOK, gin.H{"status": "No se pudo generar el mensaje", "completado": completado})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url, "completado": completado})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "canal desconocido"})
	}
}

// Alcance exposes the contact reachability flags the channel buttons are
// gated on.
func (h *ConfirmacionHandler) Alcance(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var contacto models.Contacto
	if err := h.DB.First(&contacto, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contacto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tiene_email":    contacto.TieneEmail(),
		"tiene_telefono": contacto.TieneTelefono(),
	})
}
