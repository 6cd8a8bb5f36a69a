package usecase

import (
	"crypto/rand"
	"io"
)

// generateTicketCode creates a random, human-typeable redemption code.
// Format: UR-XXXXXXXX
func generateTicketCode() (string, error) {
	// A character set that avoids ambiguous characters like O/0, I/1, l.
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const suffixLength = 8

	buffer := make([]byte, suffixLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}

	for i := 0; i < suffixLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}

	return "UR-" + string(buffer), nil
}
