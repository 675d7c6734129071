// File: services/chatbot/phone.go
package chatbot

import (
	"strings"

	"github.com/NavaUDP/Agenda-Revitek/config"
)

// NormalizePhone reduces a phone to digits and prefixes the configured
// country code when missing ("9 1234 5678" becomes "56912345678").
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	prefix := config.AppConfig.PhoneCountryPrefix
	if prefix != "" && !strings.HasPrefix(digits, prefix) {
		digits = prefix + digits
	}
	return digits
}

// LastDigits returns the trailing n digits of a normalized phone, or the whole
// phone when shorter.
func LastDigits(phone string, n int) string {
	if len(phone) <= n {
		return phone
	}
	return phone[len(phone)-n:]
}
