// File: services/whatsapp/webhook.go
package whatsapp

import (
	"context"
	"strings"

	"go.uber.org/zap"

	chatlogRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/chatlog"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/chatbot"
	"github.com/NavaUDP/Agenda-Revitek/services/lifecycle"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// WebhookPayload mirrors the Meta Cloud webhook JSON shape.
type WebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value ChangeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type ChangeValue struct {
	Statuses []StatusReceipt  `json:"statuses"`
	Messages []InboundMessage `json:"messages"`
}

type StatusReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type InboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button"`
	Context *struct {
		ID string `json:"id"`
	} `json:"context"`
}

// WebhookProcessor routes inbound webhook events: delivery receipts update the
// chat log, button replies confirm or cancel reservations, and plain text goes
// to the conversation bot.
type WebhookProcessor struct {
	Bot       *chatbot.ChatBot
	Lifecycle lifecycle.LifecycleService
	Chat      *MetaClient
	Log       chatlogRepo.ChatLogRepository
}

// Process handles one webhook delivery. It never returns an error to the
// caller: Meta retries failed deliveries aggressively, and a poison payload
// must not wedge the webhook.
func (p *WebhookProcessor) Process(ctx context.Context, payload WebhookPayload) {
	logger := utils.GetLogger()
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, receipt := range change.Value.Statuses {
				if err := p.Log.UpdateStatusByMessageID(ctx, receipt.ID, receipt.Status); err != nil {
					logger.Debug("webhook: receipt for unknown message",
						zap.String("messageId", receipt.ID))
				}
			}
			for _, msg := range change.Value.Messages {
				p.handleMessage(ctx, msg)
			}
		}
	}
}

func (p *WebhookProcessor) handleMessage(ctx context.Context, msg InboundMessage) {
	logger := utils.GetLogger()

	// Interactive and template button replies carry the action payload.
	if action := buttonPayload(msg); action != "" {
		p.handleButton(ctx, msg.From, action)
		return
	}
	// Template button clicks without payload: resolve through the original
	// message the client replied to.
	if msg.Button != nil && msg.Context != nil {
		if entry, err := p.Log.GetByMessageID(ctx, msg.Context.ID); err == nil && entry.ReservationID != "" {
			action := "CONFIRM_RESERVATION_" + entry.ReservationID
			if strings.EqualFold(msg.Button.Text, "Cancelar") {
				action = "CANCEL_RESERVATION_" + entry.ReservationID
			}
			p.handleButton(ctx, msg.From, action)
			return
		}
	}

	if msg.Type != "text" || msg.Text == nil {
		return
	}
	reply, err := p.Bot.Handle(ctx, msg.From, msg.Text.Body)
	if err != nil {
		logger.Error("webhook: chatbot failed", zap.String("from", msg.From), zap.Error(err))
		return
	}
	if reply != "" {
		if err := p.Chat.SendText(ctx, msg.From, reply); err != nil {
			logger.Warn("webhook: reply send failed", zap.Error(err))
		}
	}
}

func (p *WebhookProcessor) handleButton(ctx context.Context, from, action string) {
	logger := utils.GetLogger()
	switch {
	case strings.HasPrefix(action, "CONFIRM_RESERVATION_"):
		id := strings.TrimPrefix(action, "CONFIRM_RESERVATION_")
		if err := p.Lifecycle.Transition(ctx, id, models.StatusConfirmed, "confirmed via chat button"); err != nil {
			logger.Warn("webhook: confirm button failed", zap.String("reservationId", id), zap.Error(err))
			_ = p.Chat.SendText(ctx, from, "No pudimos confirmar tu reserva. Puede que ya esté confirmada o cancelada.")
			return
		}
		_ = p.Chat.SendText(ctx, from, "✅ Tu reserva quedó confirmada. ¡Te esperamos!")
	case strings.HasPrefix(action, "CANCEL_RESERVATION_"):
		id := strings.TrimPrefix(action, "CANCEL_RESERVATION_")
		if err := p.Lifecycle.Cancel(ctx, id, models.CancelledByClientChat); err != nil {
			logger.Warn("webhook: cancel button failed", zap.String("reservationId", id), zap.Error(err))
			_ = p.Chat.SendText(ctx, from, "No pudimos cancelar tu reserva. Escribe *menu* para más opciones.")
			return
		}
		_ = p.Chat.SendText(ctx, from, "Tu reserva fue cancelada. Escribe *menu* si quieres agendar otra hora.")
	}
}

func buttonPayload(msg InboundMessage) string {
	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID
	}
	if msg.Button != nil && msg.Button.Payload != "" {
		return msg.Button.Payload
	}
	return ""
}
