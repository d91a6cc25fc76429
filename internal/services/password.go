package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"sosmed/internal/apperror"
)

const (
	// PasswordSymbols is the fixed set of accepted symbols.
	PasswordSymbols   = "@$!%*?&"
	MinPasswordLength = 8

	generatedPasswordLength = 12
	passwordLetters         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordDigits          = "0123456789"
)

// CheckPasswordPolicy requires at least MinPasswordLength characters drawn
// from letters, digits and PasswordSymbols, with at least one of each class.
func CheckPasswordPolicy(password string) error {
	if len(password) < MinPasswordLength {
		return weakPassword()
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		default:
			return weakPassword()
		}
	}
	if !hasLetter || !hasDigit || !hasSymbol {
		return weakPassword()
	}
	return nil
}

func weakPassword() error {
	return apperror.New(apperror.KindWeakCredential,
		"Password must be at least %d characters and contain a letter, a digit and one of %s",
		MinPasswordLength, PasswordSymbols)
}

// GeneratePassword returns a random password that satisfies the policy.
func GeneratePassword() (string, error) {
	all := passwordLetters + passwordDigits + PasswordSymbols
	classes := []string{passwordLetters, passwordDigits, PasswordSymbols}

	buf := make([]byte, 0, generatedPasswordLength)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < generatedPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates so the class characters are not always first
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to shuffle password: %w", err)
		}
		buf[i], buf[j.Int64()] = buf[j.Int64()], buf[i]
	}
	return string(buf), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate password: %w", err)
	}
	return set[n.Int64()], nil
}
