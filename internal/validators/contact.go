package validators

import (
	"net/mail"
	"strings"
)

// NormalizePhone strips common separators and keeps a leading "+". Numbers with
// fewer than 6 or more than 15 digits are rejected.
func NormalizePhone(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", false
		}
	}

	out := b.String()
	digits := len(strings.TrimPrefix(out, "+"))
	if digits < 6 || digits > 15 {
		return "", false
	}
	return out, true
}

// IsEmailValid checks syntax only; an empty address is valid because email is optional.
func IsEmailValid(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
