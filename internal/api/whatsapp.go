package api

import (
	"net/http"

	"crm-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	Client *whatsapp.Client
}

func NewWhatsAppHandler(client *whatsapp.Client) *WhatsAppHandler {
	return &WhatsAppHandler{Client: client}
}

type SendRequest struct {
	To   string `json:"to" binding:"required"`
	Body string `json:"body" binding:"required"`
}

// SendMessage sends a plain text message through the Graph API. This is the
// direct-send path for follow-ups; the confirmation flow uses wa.me links
// instead so the message leaves from the salesperson's own account.
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Client.SendMessage(c.Request.Context(), req.To, req.Body); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Mensaje enviado"})
}
