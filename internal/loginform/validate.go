package loginform

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/loginpage/internal/domain"
)

// emailPattern accepts local@domain.tld: no whitespace or '@' in any part and
// at least one '.' in the domain followed by more characters. Whitespace is
// the same set IsSpace trims, so \p{Z}, \v and U+FEFF are excluded too.
var emailPattern = regexp.MustCompile(
	`^[^\s\p{Z}\x0B\x{FEFF}@]+@[^\s\p{Z}\x0B\x{FEFF}@]+\.[^\s\p{Z}\x0B\x{FEFF}@]+$`,
)

const emailTag = "loginemail"

// credentials carries the trimmed field values through the struct validator.
type credentials struct {
	Email    string `validate:"required,loginemail"`
	Password string `validate:"required"`
}

// Validator runs the field rules and then the credential check.
type Validator struct {
	validate *validator.Validate
	verifier domain.CredentialVerifier
}

// NewValidator creates a Validator that checks credentials with verifier.
func NewValidator(verifier domain.CredentialVerifier) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{validate: v, verifier: verifier}
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsSpace reports whether r is whitespace for trimming and for the email
// shape: Unicode white space and line separators plus the byte order mark,
// but not NEL (U+0085).
func IsSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// Trim strips leading and trailing IsSpace runes.
func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// Validate trims both inputs and classifies them. Missing fields win over a
// malformed email, which wins over a credential check.
func (v *Validator) Validate(ctx context.Context, email, password string) Outcome {
	creds := credentials{
		Email:    Trim(email),
		Password: Trim(password),
	}

	if kind, ok := v.checkFields(creds); !ok {
		return Outcome{Kind: kind}
	}

	if err := v.verifier.Verify(ctx, creds.Email, creds.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			slog.WarnContext(ctx, "Credential check failed", "email", creds.Email, "error", err)
		}
		return Outcome{Kind: InvalidCredentials}
	}

	return Outcome{Kind: Success, Email: creds.Email}
}

func (v *Validator) checkFields(creds credentials) (OutcomeKind, bool) {
	err := v.validate.Struct(creds)
	if err == nil {
		return 0, true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return MissingFields, false
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return MissingFields, false
		}
	}
	return InvalidEmailFormat, false
}
