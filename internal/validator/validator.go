package validator

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"unicode"
)

var (
	isValidPhoneNumber = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`).MatchString
	hasDigit           = regexp.MustCompile(`[0-9]`).MatchString
	hasLower           = regexp.MustCompile(`[a-z]`).MatchString
	hasUpper           = regexp.MustCompile(`[A-Z]`).MatchString
	hasSpecial         = regexp.MustCompile(`[\W_]`).MatchString
)

func ValidateString(value string, minLength int, maxLength int) error {
	n := len(value)
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d to %d characters", minLength, maxLength)
	}

	return nil
}

func ValidatePassword(value string) error {
	err := errors.New("value must be between 8 and 30 characters long, contain at least one digit, one lowercase letter, one uppercase letter, and one special character")

	if len(value) < 8 || len(value) > 30 {
		return err
	}
	if !hasDigit(value) || !hasLower(value) || !hasUpper(value) || !hasSpecial(value) {
		return err
	}

	return nil
}

func ValidateEmail(value string) error {
	if err := ValidateString(value, 6, 200); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("is not a valid email address")
	}

	return nil
}

func ValidateFullName(value string) error {
	if err := ValidateString(value, 3, 100); err != nil {
		return err
	}

	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("must contain only letters or spaces")
		}
	}

	return nil
}

// ValidatePhoneNumber accepts E.164 numbers, the format SMS gateways expect.
func ValidatePhoneNumber(value string) error {
	if !isValidPhoneNumber(value) {
		return fmt.Errorf("must be an E.164 phone number, e.g. +254712345678")
	}

	return nil
}
