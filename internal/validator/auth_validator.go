package validator

import (
	"errors"
	"regexp"
	"strings"
)

// 入力が不正（個別のエラーはすべてこれにerrors.Isで一致する）
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrNameRequired     = invalid("name is required")
	ErrEmailRequired    = invalid("email is required")
	ErrInvalidEmail     = invalid("invalid email format")
	ErrPasswordRequired = invalid("password is required")
	ErrPasswordTooShort = invalid("password must be at least 8 characters")
	ErrPasswordTooLong  = invalid("password must be at most 72 bytes")
)

const (
	minPasswordLen = 8
	// bcryptが扱える上限
	maxPasswordLen = 72
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type inputError struct {
	msg string
}

func invalid(msg string) error {
	return &inputError{msg: msg}
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

type AuthValidator struct{}

func NewAuthValidator() *AuthValidator {
	return &AuthValidator{}
}

// サインアップの入力を検証
func (v *AuthValidator) ValidateRegister(name string, email string, password string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}

// ログインの入力を検証
func (v *AuthValidator) ValidateLogin(email string, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
