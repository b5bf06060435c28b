package webhook

import (
	"log"
	"net/http"

	"crm-gateway/internal/config"
	"crm-gateway/internal/models"
	"crm-gateway/internal/ws"
	pkgmodels "crm-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler receives delivery-status callbacks from the mail provider, patches
// the matching email record and fans the event out to subscribed UI clients.
type Handler struct {
	Config *config.Config
	DB     *gorm.DB
	Hub    *ws.Hub
}

func NewHandler(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *Handler {
	return &Handler{Config: cfg, DB: db, Hub: hub}
}

// VerifyWebhook answers the provider's subscription handshake.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == h.Config.WebhookToken {
			log.Println("Webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

// HandleDelivery applies one delivery event. An event whose record does not
// exist is acknowledged and dropped so the provider stops retrying.
func (h *Handler) HandleDelivery(c *gin.Context) {
	var ev pkgmodels.DeliveryEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		log.Printf("Error binding delivery event: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	if ev.Estado != models.CorreoEntregado && ev.Estado != models.CorreoRebotado {
		c.Status(http.StatusBadRequest)
		return
	}

	result := h.DB.Model(&models.CorreoRegistro{}).
		Where("id = ? AND trato_id = ?", ev.CorreoID, ev.TratoID).
		Update("estado", ev.Estado)
	if result.Error != nil {
		log.Printf("Error updating correo %s: %v", ev.CorreoID, result.Error)
		c.Status(http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("Delivery event for unknown correo %s ignored", ev.CorreoID)
		c.Status(http.StatusOK)
		return
	}

	h.Hub.NotifyDelivery(ev)
	c.Status(http.StatusOK)
}
