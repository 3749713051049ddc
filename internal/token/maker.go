package token

import (
	"time"
)

// Maker is an interface for managing tokens.
type Maker interface {
	CreateToken(userID string, role string, duration time.Duration) (token string, payload *Payload, err error)
	VerifyToken(tokenString string) (payload *Payload, err error)
}
