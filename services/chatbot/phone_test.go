// File: services/chatbot/phone_test.go
package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NavaUDP/Agenda-Revitek/config"
)

func TestNormalizePhone(t *testing.T) {
	prev := config.AppConfig.PhoneCountryPrefix
	config.AppConfig.PhoneCountryPrefix = "56"
	defer func() { config.AppConfig.PhoneCountryPrefix = prev }()

	assert.Equal(t, "56912345678", NormalizePhone("9 1234 5678"))
	assert.Equal(t, "56912345678", NormalizePhone("+56 9 1234 5678"))
	assert.Equal(t, "56912345678", NormalizePhone("56912345678"))
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "12345678", LastDigits("56912345678", 8))
	assert.Equal(t, "5678", LastDigits("5678", 8))
	assert.Equal(t, "", LastDigits("", 8))
}
