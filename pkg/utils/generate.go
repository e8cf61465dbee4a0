package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// GenerateBookingReference returns a human readable booking code,
// e.g. STU-20261018-a8Zk3Qp, dated by the booking start.
func GenerateBookingReference(start time.Time) (string, error) {
	suffix, err := gonanoid.Generate(referenceAlphabet, 7)
	if err != nil {
		return "", fmt.Errorf("generate booking reference: %w", err)
	}
	return fmt.Sprintf("STU-%s-%s", start.UTC().Format("20060102"), suffix), nil
}
