// handlers/errors.go
package handlers

import (
	"errors"
	"log"

	"memeverse/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:           fiber.StatusBadRequest,
	services.KindNotFound:             fiber.StatusNotFound,
	services.KindConflict:             fiber.StatusConflict,
	services.KindAuthorization:        fiber.StatusForbidden,
	services.KindInsufficientResource: fiber.StatusPaymentRequired,
	services.KindStorage:              fiber.StatusInternalServerError,
}

// respondError writes err as {"error", "code", "kind", ...details}.
func respondError(c *fiber.Ctx, err error) error {
	var domain *services.Error
	if !errors.As(err, &domain) {
		log.Printf("❌ [%s %s] unexpected error: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
			"cause": err.Error(),
			"kind":  services.KindStorage,
		})
	}

	status, ok := statusByKind[domain.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{}
	for k, v := range domain.Details {
		body[k] = v
	}
	body["error"] = domain.Message
	body["code"] = domain.Code
	body["kind"] = domain.Kind
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [%s %s] %v", c.Method(), c.Path(), err)
		if domain.Err != nil {
			body["cause"] = domain.Err.Error()
		}
	} else if domain.Kind == services.KindValidation && domain.Err != nil {
		body["cause"] = domain.Err.Error()
	}
	return c.Status(status).JSON(body)
}

// parseBody decodes and validates the JSON body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return services.ErrInvalidInput.Wrap(err)
	}
	if err := validate.Struct(dst); err != nil {
		return services.ErrInvalidInput.Wrap(err)
	}
	return nil
}
