package handlers

import (
	"github.com/adoptme/backend/internal/seed"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MocksHandler exposes fake-data generation for demos and manual testing.
type MocksHandler struct {
	DB *gorm.DB
}

func NewMocksHandler(db *gorm.DB) *MocksHandler {
	return &MocksHandler{DB: db}
}

func (h *MocksHandler) MockingUsers(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, seed.MockUsers(50))
}

func (h *MocksHandler) MockingPets(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, seed.MockPets(100))
}

// GenerateData persists ?users=N&pets=M generated rows and reports the
// inserted counts.
func (h *MocksHandler) GenerateData(c *fiber.Ctx) error {
	userCount := c.QueryInt("users", 0)
	petCount := c.QueryInt("pets", 0)

	if userCount < 0 || petCount < 0 {
		return utils.Error(c, fiber.StatusBadRequest, "counts must be non-negative")
	}

	insertedUsers, insertedPets, err := seed.Insert(h.DB, seed.MockUsers(userCount), seed.MockPets(petCount))
	if err != nil {
		logger.Error("mock_data_insert_failed", err, map[string]interface{}{
			"users": userCount,
			"pets":  petCount,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "failed inserting mock data")
	}

	logger.Info("mock_data_inserted", map[string]interface{}{
		"users":      insertedUsers,
		"pets":       insertedPets,
		"request_id": getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"inserted": fiber.Map{
			"users": insertedUsers,
			"pets":  insertedPets,
		},
	})
}

// GenerateDataPreview returns a small sample without persisting anything.
func (h *MocksHandler) GenerateDataPreview(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"users": seed.MockUsers(5),
		"pets":  seed.MockPets(5),
	})
}
