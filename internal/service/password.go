package service

import (
	"strings"
	"unicode"
)

// PasswordValidation es el resultado de evaluar la política de contraseñas.
type PasswordValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

const passwordMinLength = 8

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword aplica la política de fuerza de contraseñas. Es una
// función pura, independiente del hashing.
func ValidatePassword(password string) PasswordValidation {
	var errs []string

	if len(password) < passwordMinLength {
		errs = append(errs, "password must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}
	if !hasSymbol {
		errs = append(errs, "password must contain a special character")
	}

	return PasswordValidation{IsValid: len(errs) == 0, Errors: errs}
}

// PasswordPolicyError transporta los incumplimientos de la política hacia
// la capa HTTP.
type PasswordPolicyError struct {
	Errors []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Errors, "; ")
}
