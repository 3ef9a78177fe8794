package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidEmail is returned when email format is invalid
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrEmptyField is returned when a required field is empty
	ErrEmptyField = errors.New("field cannot be empty")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email validates email format
func Email(email string) error {
	if email == "" {
		return ErrEmptyField
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Required checks if a string field is not empty
func Required(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// MinLength checks if string meets minimum length requirement
func MinLength(value string, min int, fieldName string) error {
	if len(value) < min {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(min) + " characters")
	}
	return nil
}

// MaxLength checks if string doesn't exceed maximum length
func MaxLength(value string, max int, fieldName string) error {
	if len(value) > max {
		return errors.New(fieldName + " must not exceed " + strconv.Itoa(max) + " characters")
	}
	return nil
}
