package booking

import "strings"

// Masked-value heuristics. Reservation detail endpoints hand out partially
// starred values (e.g. "j***@gmail.com", "AB**12"); when such a value comes
// back in a booking request it must not overwrite the real record.

// IsMasked reports whether a value is a starred-out rendering of a real one.
func IsMasked(value string) bool {
	return strings.Contains(value, "*")
}

// IsMaskedLastName detects the abbreviated last-name form ("Gon." for
// "Gonzalez"): a short stem ending in a period where the current name starts
// with that stem.
func IsMaskedLastName(incoming, current string) bool {
	incoming = strings.TrimSpace(incoming)
	if !strings.HasSuffix(incoming, ".") {
		return false
	}
	stem := strings.TrimSuffix(incoming, ".")
	if len(stem) > 3 || stem == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(current), strings.ToLower(stem))
}

// shouldUpdateName reports whether an incoming first/last name should replace
// the stored one.
func shouldUpdateName(incoming, current string) bool {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || incoming == current {
		return false
	}
	if IsMasked(incoming) {
		return false
	}
	return !IsMaskedLastName(incoming, current)
}

// shouldUpdatePhone reports whether an incoming phone should replace the
// stored one.
func shouldUpdatePhone(incoming, current string) bool {
	incoming = strings.TrimSpace(incoming)
	return incoming != "" && incoming != current && !IsMasked(incoming)
}
