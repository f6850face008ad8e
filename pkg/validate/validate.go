package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates request DTOs against their `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// IsProofURL reports whether s looks like an uploaded proof-of-payment
// link. Only https links are accepted.
func IsProofURL(s string) bool {
	return strings.HasPrefix(s, "https://")
}
