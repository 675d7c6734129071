// File: services/whatsapp/webhook_test.go
package whatsapp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "statuses": [{"id": "wamid.status1", "status": "delivered"}],
        "messages": [
          {"from": "56912345678", "type": "text", "text": {"body": "hola"}},
          {"from": "56912345678", "type": "interactive",
           "interactive": {"type": "button_reply",
             "button_reply": {"id": "CONFIRM_RESERVATION_res-1", "title": "Confirmar"}}},
          {"from": "56912345678", "type": "button",
           "button": {"payload": "CANCEL_RESERVATION_res-2", "text": "Cancelar"},
           "context": {"id": "wamid.orig"}}
        ]
      }
    }]
  }]
}`

func TestWebhookPayloadDecoding(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &payload))
	require.Len(t, payload.Entry, 1)
	require.Len(t, payload.Entry[0].Changes, 1)

	value := payload.Entry[0].Changes[0].Value
	require.Len(t, value.Statuses, 1)
	assert.Equal(t, "wamid.status1", value.Statuses[0].ID)
	assert.Equal(t, "delivered", value.Statuses[0].Status)

	require.Len(t, value.Messages, 3)
	text := value.Messages[0]
	require.NotNil(t, text.Text)
	assert.Equal(t, "hola", text.Text.Body)

	button := value.Messages[2]
	require.NotNil(t, button.Context)
	assert.Equal(t, "wamid.orig", button.Context.ID)
}

func TestButtonPayload(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &payload))
	msgs := payload.Entry[0].Changes[0].Value.Messages

	assert.Empty(t, buttonPayload(msgs[0]))
	assert.Equal(t, "CONFIRM_RESERVATION_res-1", buttonPayload(msgs[1]))
	assert.Equal(t, "CANCEL_RESERVATION_res-2", buttonPayload(msgs[2]))
}

func TestButtonPayloadEmptyTemplateButton(t *testing.T) {
	// Template clicks without payload resolve through the replied-to message,
	// so buttonPayload must not invent an action for them.
	var msg InboundMessage
	require.NoError(t, json.Unmarshal([]byte(
		`{"from": "56912345678", "type": "button",
		  "button": {"payload": "", "text": "Cancelar"},
		  "context": {"id": "wamid.orig"}}`), &msg))
	assert.Empty(t, buttonPayload(msg))
}
