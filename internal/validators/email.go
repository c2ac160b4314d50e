package validators

import (
	"net/mail"
	"strings"
)

// IsEmail aceita só o endereço puro, sem nome de exibição.
func IsEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
