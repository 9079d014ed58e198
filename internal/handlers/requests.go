package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the login form submission. Empty fields are allowed here;
// they are a form outcome, not a malformed request.
type LoginRequest struct {
	Email      string `form:"email" validate:"max=320"`
	Password   string `form:"password" validate:"max=1024"`
	RememberMe bool   `form:"remember_me"`
}
