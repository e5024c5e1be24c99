package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "message": ..., "error": {"code", "message", "details"}}.
// Outside debug mode the message of unexpected errors is redacted.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, ok := As(err)
		if !ok {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				appErr = New(codeForStatus(fe.Code), fe.Message, fe.Code)
			} else {
				appErr = Internal("Internal server error", err)
				if debug {
					appErr.Message = err.Error()
				}
			}
		}

		msg := appErr.Message
		if appErr.HTTPCode >= fiber.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			if !debug {
				msg = "Internal server error"
			}
		}

		body := fiber.Map{
			"code":    appErr.Code,
			"message": msg,
		}
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}

		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"success": false,
			"message": msg,
			"error":   body,
		})
	}
}

func codeForStatus(status int) Code {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusTooManyRequests:
		return CodeRateLimited
	default:
		if status >= fiber.StatusInternalServerError {
			return CodeInternal
		}
		return CodeBadRequest
	}
}
