package util

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// GenerateMessageID returns a globally unique RFC 5322 message id for the given domain.
func GenerateMessageID(domain string) string {
	return fmt.Sprintf("%s@%s", shortuuid.New(), domain)
}

// RandomInt generates a random integer between min and max.
func RandomInt(min, max int64) int64 {
	return min + rand.Int63n(max-min+1)
}

// RandomString generates a random string of length n.
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomEmail generates a random email.
func RandomEmail() string {
	return fmt.Sprintf("%s@email.com", RandomString(6))
}

// RandomPhoneNumber generates a random E.164 phone number.
func RandomPhoneNumber() string {
	return fmt.Sprintf("+2547%08d", RandomInt(0, 99999999))
}
