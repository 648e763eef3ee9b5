package responses

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every handler replies with.
type APIResponse struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Result  *fiber.Map `json:"result,omitempty"`
}

// Error writes a bare status+message envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Status:  status,
		Message: message,
	})
}

// OK writes a success envelope with the given payload.
func OK(c *fiber.Ctx, status int, message string, result fiber.Map) error {
	return c.Status(status).JSON(APIResponse{
		Status:  status,
		Message: message,
		Result:  &result,
	})
}
