// File: handlers/webhook.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	"github.com/NavaUDP/Agenda-Revitek/services/whatsapp"
)

// WebhookHandler terminates the Meta Cloud webhook.
type WebhookHandler struct {
	Processor *whatsapp.WebhookProcessor
}

func NewWebhookHandler(p *whatsapp.WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{Processor: p}
}

// VerifyHandler answers Meta's subscription handshake.
func (h *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == config.AppConfig.WhatsAppVerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// ReceiveHandler ingests webhook deliveries. It always answers 200: Meta
// retries non-2xx responses and a bad payload must not loop forever.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	var payload whatsapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		zap.L().Warn("webhook: undecodable payload", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}
	h.Processor.Process(c.Request.Context(), payload)
	c.Status(http.StatusOK)
}
