package serverutils

import (
	"errors"

	"loan-assist-be/pkg/intake"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers
// into JSON envelopes. Applicants never see internal detail; defects
// are logged where they are raised.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		if intake.IsInvariantViolation(err) {
			// Fail closed, generic message only.
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong on our side. Please try again.",
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong. Please try again.",
		})
	}
}
