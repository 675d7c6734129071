// File: services/chatbot/address_test.go
package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

var testCommunes = []models.Commune{
	{ID: "c1", Name: "Providencia"},
	{ID: "c2", Name: "La Paz"},
	{ID: "c3", Name: "San Pedro de la Paz"},
}

func TestParseAddressFull(t *testing.T) {
	got := ParseAddress("Av. Providencia 1234 depto 5, Providencia", testCommunes)
	assert.Equal(t, "Av. Providencia", got.Street)
	assert.Equal(t, "1234", got.Number)
	assert.Equal(t, "depto 5", got.Complement)
	assert.Equal(t, "c1", got.CommuneID)
	assert.Equal(t, "Providencia", got.CommuneName)
	assert.Equal(t, "principal", got.Alias)
}

func TestParseAddressLongestCommuneWins(t *testing.T) {
	got := ParseAddress("Los Aromos 42, San Pedro de la Paz", testCommunes)
	assert.Equal(t, "c3", got.CommuneID)
	assert.Equal(t, "Los Aromos", got.Street)
	assert.Equal(t, "42", got.Number)
}

func TestParseAddressNoCommune(t *testing.T) {
	got := ParseAddress("Calle Falsa 123", testCommunes)
	assert.Empty(t, got.CommuneID)
	assert.Equal(t, "Calle Falsa", got.Street)
	assert.Equal(t, "123", got.Number)
}

func TestParseAddressNoNumber(t *testing.T) {
	got := ParseAddress("Camino al Cerro, Providencia", testCommunes)
	assert.Equal(t, "c1", got.CommuneID)
	assert.Equal(t, "Camino al Cerro", got.Street)
	assert.Empty(t, got.Number)
}

func TestParseAddressCaseInsensitiveCommune(t *testing.T) {
	got := ParseAddress("Pasaje Sur 9, providencia", testCommunes)
	assert.Equal(t, "c1", got.CommuneID)
	assert.Equal(t, "Providencia", got.CommuneName)
}
