package utils

import "github.com/gofiber/fiber/v2"

// Every endpoint answers with the same envelope: status plus either a
// payload (reads) or a message (mutations and errors).

func Success(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"payload": payload,
	})
}

func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": message,
	})
}

func MessageWithPayload(c *fiber.Ctx, status int, message string, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"payload": payload,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func Paginated(c *fiber.Ctx, payload interface{}, page, limit int, total int64) error {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"payload": payload,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}
