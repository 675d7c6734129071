// File: services/chatbot/address.go
package chatbot

import (
	"regexp"
	"sort"
	"strings"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

var streetNumberRe = regexp.MustCompile(`^(.*?)\s+(\d+)\s*(.*)$`)

// ParseAddress splits a free-form address line ("Av. Providencia 1234 depto 5,
// Providencia") into street, number, complement and commune. The commune is
// matched by the longest known-commune suffix; the remainder is split on the
// first trailing street number.
func ParseAddress(input string, communes []models.Commune) models.AddressInput {
	line := strings.TrimSpace(input)
	out := models.AddressInput{Alias: "principal"}

	// Longest suffix wins so "San Pedro de la Paz" beats "La Paz".
	sorted := make([]models.Commune, len(communes))
	copy(sorted, communes)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i].Name) > len(sorted[j].Name) })

	lower := strings.ToLower(line)
	for _, c := range sorted {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" || !strings.HasSuffix(lower, name) {
			continue
		}
		out.CommuneID = c.ID
		out.CommuneName = c.Name
		line = strings.TrimSpace(line[:len(line)-len(name)])
		line = strings.TrimRight(line, " ,")
		break
	}

	if m := streetNumberRe.FindStringSubmatch(line); m != nil {
		out.Street = strings.TrimSpace(m[1])
		out.Number = m[2]
		out.Complement = strings.TrimSpace(m[3])
	} else {
		out.Street = line
	}
	return out
}
