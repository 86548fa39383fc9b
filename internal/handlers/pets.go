package handlers

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/adoptme/backend/internal/models"
	"github.com/adoptme/backend/internal/storage"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PetsHandler struct {
	DB      *gorm.DB
	Storage *storage.MinIOClient
}

func NewPetsHandler(db *gorm.DB, storageClient *storage.MinIOClient) *PetsHandler {
	return &PetsHandler{DB: db, Storage: storageClient}
}

func (h *PetsHandler) List(c *fiber.Ctx) error {
	var pets []models.Pet
	if err := h.DB.Order("created_at DESC").Find(&pets).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pets")
	}
	return utils.Success(c, fiber.StatusOK, pets)
}

type createPetRequest struct {
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     *string   `json:"breed"`
	BirthDate time.Time `json:"birthDate"`
}

func (h *PetsHandler) Create(c *fiber.Ctx) error {
	var req createPetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Species = strings.TrimSpace(req.Species)

	if req.Name == "" || req.Species == "" || req.BirthDate.IsZero() {
		logger.Warn("pet_incomplete_fields", map[string]interface{}{"ip": c.IP()})
		return utils.Error(c, fiber.StatusBadRequest, "incomplete pet data")
	}

	pet := models.Pet{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	}

	if err := h.DB.Create(&pet).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating pet")
	}

	logger.Info("pet_created", map[string]interface{}{
		"pet_id":     pet.ID.String(),
		"name":       pet.Name,
		"request_id": getRequestID(c),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "pet created", pet)
}

// CreateWithImage accepts a multipart form with the pet fields plus an
// "image" file that is stored before the record is created.
func (h *PetsHandler) CreateWithImage(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	species := strings.TrimSpace(c.FormValue("species"))
	birthDateRaw := strings.TrimSpace(c.FormValue("birthDate"))

	if name == "" || species == "" || birthDateRaw == "" {
		logger.Warn("pet_incomplete_fields", map[string]interface{}{"ip": c.IP()})
		return utils.Error(c, fiber.StatusBadRequest, "incomplete pet data")
	}

	birthDate, err := time.Parse("2006-01-02", birthDateRaw)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid birthDate, expected YYYY-MM-DD")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "image is required")
	}

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" {
		return utils.Error(c, fiber.StatusBadRequest, "invalid image filename")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded image")
	}
	defer stream.Close()

	objectName := fmt.Sprintf("pets/%s-%s", uuid.New().String(), filename)
	if err := h.Storage.Upload(c.Context(), objectName, stream, fileHeader.Size, contentType); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
	}

	var breed *string
	if value := strings.TrimSpace(c.FormValue("breed")); value != "" {
		breed = &value
	}

	pet := models.Pet{
		Name:      name,
		Species:   species,
		Breed:     breed,
		BirthDate: birthDate,
		ImagePath: &objectName,
	}

	if err := h.DB.Create(&pet).Error; err != nil {
		_ = h.Storage.Delete(c.Context(), objectName)
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating pet")
	}

	logger.Info("pet_created_with_image", map[string]interface{}{
		"pet_id":     pet.ID.String(),
		"name":       pet.Name,
		"image_path": objectName,
		"request_id": getRequestID(c),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "pet created with image", pet)
}

// Image streams the stored picture of a pet.
func (h *PetsHandler) Image(c *fiber.Ctx) error {
	petID, err := parseUUID(c.Params("pid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid pet id")
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "pet not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching pet")
	}

	if pet.ImagePath == nil {
		return utils.Error(c, fiber.StatusNotFound, "pet has no image")
	}

	obj, err := h.Storage.Download(c.Context(), *pet.ImagePath)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching image")
	}

	info, err := obj.Stat()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching image")
	}

	c.Set(fiber.HeaderContentType, info.ContentType)
	return c.SendStream(obj, int(info.Size))
}

type updatePetRequest struct {
	Name      *string    `json:"name"`
	Species   *string    `json:"species"`
	Breed     *string    `json:"breed"`
	BirthDate *time.Time `json:"birthDate"`
}

func (h *PetsHandler) Update(c *fiber.Ctx) error {
	petID, err := parseUUID(c.Params("pid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid pet id")
	}

	var req updatePetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		value := strings.TrimSpace(*req.Name)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "name cannot be empty")
		}
		updates["name"] = value
	}
	if req.Species != nil {
		value := strings.TrimSpace(*req.Species)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "species cannot be empty")
		}
		updates["species"] = value
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.BirthDate != nil {
		updates["birth_date"] = *req.BirthDate
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}

	result := h.DB.Model(&models.Pet{}).Where("id = ?", petID).Updates(updates)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating pet")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "pet not found")
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching updated pet")
	}

	logger.Info("pet_updated", map[string]interface{}{
		"pet_id":     petID.String(),
		"request_id": getRequestID(c),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "pet updated", pet)
}

func (h *PetsHandler) Delete(c *fiber.Ctx) error {
	petID, err := parseUUID(c.Params("pid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid pet id")
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "pet not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching pet")
	}

	if err := h.DB.Delete(&pet).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting pet")
	}

	if pet.ImagePath != nil && h.Storage != nil {
		// Best effort: a dangling object is preferable to a failed delete.
		_ = h.Storage.Delete(c.Context(), *pet.ImagePath)
	}

	logger.Info("pet_deleted", map[string]interface{}{
		"pet_id":     petID.String(),
		"request_id": getRequestID(c),
	})

	return utils.Message(c, fiber.StatusOK, "pet deleted")
}
