// File: services/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	chatlogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/chatlog"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

const graphAPIBase = "https://graph.facebook.com/v19.0"

// MetaClient sends messages through the Meta Cloud API and records every
// outbound message in the chat log so delivery receipts can be matched back.
type MetaClient struct {
	HTTPClient    *http.Client
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	Log           chatlogRepo.ChatLogRepository
}

func NewMetaClient(log chatlogRepo.ChatLogRepository) *MetaClient {
	return &MetaClient{
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
		BaseURL:       graphAPIBase,
		PhoneNumberID: config.AppConfig.WhatsAppPhoneNumberID,
		AccessToken:   config.AppConfig.WhatsAppAccessToken,
		Log:           log,
	}
}

// SendText sends a plain text message.
func (c *MetaClient) SendText(ctx context.Context, to, body string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	return c.send(ctx, to, "text", body, "", payload)
}

// SendTemplate sends a pre-approved template with body parameters plus the
// standard confirm/cancel quick replies carrying the reservation id.
func (c *MetaClient) SendTemplate(ctx context.Context, to, name string, params []string, reservationID string) error {
	bodyParams := make([]map[string]string, len(params))
	for i, p := range params {
		bodyParams[i] = map[string]string{"type": "text", "text": p}
	}
	components := []map[string]interface{}{
		{"type": "body", "parameters": bodyParams},
	}
	if reservationID != "" {
		components = append(components,
			quickReply(0, "CONFIRM_RESERVATION_"+reservationID),
			quickReply(1, "CANCEL_RESERVATION_"+reservationID),
		)
	}
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]interface{}{
			"name":       name,
			"language":   map[string]string{"code": "es"},
			"components": components,
		},
	}
	return c.send(ctx, to, "template", name, reservationID, payload)
}

// SendConfirmationLink sends the interactive confirm/cancel buttons with the
// tokenized confirmation link.
func (c *MetaClient) SendConfirmationLink(ctx context.Context, to, reservationID, token string) error {
	link := fmt.Sprintf("%s/confirmar/%s", config.AppConfig.FrontendURL, token)
	body := fmt.Sprintf("Tu reserva está lista para confirmar. Puedes hacerlo aquí: %s", link)
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type": "button",
			"body": map[string]string{"text": body},
			"action": map[string]interface{}{
				"buttons": []map[string]interface{}{
					{"type": "reply", "reply": map[string]string{
						"id": "CONFIRM_RESERVATION_" + reservationID, "title": "Confirmar"}},
					{"type": "reply", "reply": map[string]string{
						"id": "CANCEL_RESERVATION_" + reservationID, "title": "Cancelar"}},
				},
			},
		},
	}
	return c.send(ctx, to, "interactive", body, reservationID, payload)
}

func quickReply(index int, payload string) map[string]interface{} {
	return map[string]interface{}{
		"type":     "button",
		"sub_type": "quick_reply",
		"index":    fmt.Sprintf("%d", index),
		"parameters": []map[string]string{
			{"type": "payload", "payload": payload},
		},
	}
}

func (c *MetaClient) send(ctx context.Context, to, kind, body, reservationID string, payload map[string]interface{}) error {
	logger := utils.GetLogger()
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	entry := &models.WhatsAppLog{
		Phone:         to,
		Kind:          kind,
		Body:          body,
		ReservationID: reservationID,
		Status:        "sent",
	}

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		entry.Status = "failed"
		if c.Log != nil {
			_ = c.Log.Insert(ctx, entry)
		}
		return fmt.Errorf("whatsapp send returned %d: %s", resp.StatusCode, detail)
	}

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && len(result.Messages) > 0 {
		entry.MessageID = result.Messages[0].ID
	}
	if c.Log != nil {
		if err := c.Log.Insert(ctx, entry); err != nil {
			logger.Warn("whatsapp: log insert failed", zap.Error(err))
		}
	}
	return nil
}
