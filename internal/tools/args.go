package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeArgs unmarshals raw tool arguments into dst and applies its
// validate tags. Every failure comes back as InvalidArguments, so
// malformed input never reaches an evaluator.
func DecodeArgs(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return NewInvalidArguments("malformed arguments: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewInvalidArguments("invalid arguments: %s", formatValidationErrors(verrs))
		}
		return NewInvalidArguments("invalid arguments: %v", err)
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("field %q failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
