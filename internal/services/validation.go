package services

import (
	"errors"
	"fmt"
	"strings"

	"sosmed/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var validate = validator.New()

// validateInput runs struct validation and reports failures as
// KindValidationFailed.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperror.Validation("%s", strings.Join(messages, "; "))
}

// normalizeIdentity case-folds a login identity so that uniqueness and
// lookups are case-insensitive. Casers are stateful, so each call gets its own.
func normalizeIdentity(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func validatePostID(postID string) error {
	if _, err := uuid.Parse(postID); err != nil {
		return apperror.Validation("Post Id is required and must be valid!")
	}
	return nil
}

// asDependencyError tags collaborator failures that carry no kind yet.
func asDependencyError(err error, message string) error {
	if apperror.KindOf(err) != apperror.KindInternal {
		return err
	}
	return apperror.Wrap(apperror.KindDependencyUnavailable, err, "%s", message)
}
