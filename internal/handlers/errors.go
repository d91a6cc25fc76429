package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidationFailed:
		return fiber.StatusBadRequest
	case apperror.KindDuplicateKey:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindAuthenticationFailed:
		return fiber.StatusUnauthorized
	case apperror.KindAuthorizationFailed:
		return fiber.StatusUnauthorized
	case apperror.KindWeakCredential:
		return fiber.StatusBadRequest
	case apperror.KindDependencyUnavailable:
		return fiber.StatusServiceUnavailable
	case apperror.KindTransactionAborted:
		return fiber.StatusInternalServerError
	case apperror.KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal details are logged,
// never returned.
func respondError(c *fiber.Ctx, op string, err error) error {
	kind := apperror.KindOf(err)
	status := StatusFor(kind)
	if status >= fiber.StatusInternalServerError {
		logger.Error.Printf("%s: %v", op, err)
	} else {
		logger.Warn.Printf("%s: %v", op, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": apperror.Message(err),
		"error":   kind.String(),
	})
}

func badRequest(c *fiber.Ctx, op string, err error) error {
	logger.Warn.Printf("%s: error parsing request body: %v", op, err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   apperror.KindValidationFailed.String(),
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"error":   apperror.KindValidationFailed.String(),
		"errors":  errorMessages,
	})
}

// readUpload returns the bytes of the named multipart file, or nil when the
// request carries none.
func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	return readFileHeader(files[0])
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("Unable to read uploaded file %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Validation("Unable to read uploaded file %s", fh.Filename)
	}
	return data, nil
}

func principalID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
