package services

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"catalog/internal/domain"
	"catalog/internal/utils"
)

func requireLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if min > 0 && n == 0 {
		return domain.ValidationError{Field: field, Msg: field + " is required"}
	}
	if n < min || (max > 0 && n > max) {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%s must be between %d and %d characters", field, min, max)}
	}
	return nil
}

func requireMaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%s must be at most %d characters", field, max)}
	}
	return nil
}

func requireEmail(value string) (string, error) {
	email := utils.NormalizeEmail(value)
	if email == "" {
		return "", domain.ValidationError{Field: "email", Msg: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > 150 {
		return "", domain.ValidationError{Field: "email", Msg: "email is not valid"}
	}
	return email, nil
}

func requirePassword(value string) error {
	if utf8.RuneCountInString(value) < 8 {
		return domain.ValidationError{Field: "password", Msg: "password must be at least 8 characters"}
	}
	if len(value) > 72 {
		return domain.ValidationError{Field: "password", Msg: "password must be at most 72 bytes"}
	}
	return nil
}

func requirePositiveID(field string, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: field, Msg: field + " must be a positive id"}
	}
	return nil
}
