package handlers

import (
	"errors"

	"github.com/adoptme/backend/internal/services"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AdoptionsHandler struct {
	Service *services.AdoptionService
}

func NewAdoptionsHandler(service *services.AdoptionService) *AdoptionsHandler {
	return &AdoptionsHandler{Service: service}
}

func (h *AdoptionsHandler) List(c *fiber.Ctx) error {
	adoptions, err := h.Service.List(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing adoptions")
	}
	return utils.Success(c, fiber.StatusOK, adoptions)
}

func (h *AdoptionsHandler) Get(c *fiber.Ctx) error {
	adoptionID, err := parseUUID(c.Params("aid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid adoption id")
	}

	adoption, err := h.Service.Get(c.Context(), adoptionID)
	if err != nil {
		if errors.Is(err, services.ErrAdoptionNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "adoption not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching adoption")
	}

	return utils.Success(c, fiber.StatusOK, adoption)
}

func (h *AdoptionsHandler) Create(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("uid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}
	petID, err := parseUUID(c.Params("pid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid pet id")
	}

	adoption, err := h.Service.Create(c.Context(), userID, petID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrPetNotFound):
			return utils.Error(c, fiber.StatusNotFound, "pet not found")
		case errors.Is(err, services.ErrPetAlreadyAdopted):
			// Kept as 400 rather than 409 for compatibility with existing clients.
			return utils.Error(c, fiber.StatusBadRequest, "pet already adopted")
		default:
			return utils.Error(c, fiber.StatusInternalServerError, "failed creating adoption")
		}
	}

	logger.Info("pet_adopted", map[string]interface{}{
		"adoption_id": adoption.ID.String(),
		"user_id":     userID.String(),
		"pet_id":      petID.String(),
		"request_id":  getRequestID(c),
	})

	return utils.Message(c, fiber.StatusOK, "pet adopted")
}

type updateAdoptionRequest struct {
	OwnerID *string `json:"ownerID"`
	PetID   *string `json:"petID"`
}

func (h *AdoptionsHandler) Update(c *fiber.Ctx) error {
	adoptionID, err := parseUUID(c.Params("aid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid adoption id")
	}

	var req updateAdoptionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	var patch services.AdoptionPatch
	if req.OwnerID != nil {
		ownerID, err := parseUUID(*req.OwnerID)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid owner id")
		}
		patch.OwnerID = &ownerID
	}
	if req.PetID != nil {
		petID, err := parseUUID(*req.PetID)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid pet id")
		}
		patch.PetID = &petID
	}

	adoption, err := h.Service.Update(c.Context(), adoptionID, patch)
	if err != nil {
		if errors.Is(err, services.ErrAdoptionNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "adoption not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating adoption")
	}

	logger.Info("adoption_updated", map[string]interface{}{
		"adoption_id": adoptionID.String(),
		"request_id":  getRequestID(c),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "adoption updated", adoption)
}

func (h *AdoptionsHandler) Delete(c *fiber.Ctx) error {
	adoptionID, err := parseUUID(c.Params("aid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid adoption id")
	}

	if err := h.Service.Delete(c.Context(), adoptionID); err != nil {
		if errors.Is(err, services.ErrAdoptionNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "adoption not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting adoption")
	}

	logger.Info("adoption_deleted", map[string]interface{}{
		"adoption_id": adoptionID.String(),
		"request_id":  getRequestID(c),
	})

	return utils.Message(c, fiber.StatusOK, "adoption deleted")
}
