package models

import (
	"errors"
	"fmt"
	"strings"

	"sosmed/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Like{}}
}

func validateEntity(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate %s: %w", entity, err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperror.Validation("invalid %s: %s", entity, strings.Join(messages, "; "))
}
