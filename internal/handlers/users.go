package handlers

import (
	"fmt"
	"mime"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/adoptme/backend/internal/models"
	"github.com/adoptme/backend/internal/storage"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB      *gorm.DB
	Storage *storage.MinIOClient
}

func NewUsersHandler(db *gorm.DB, storageClient *storage.MinIOClient) *UsersHandler {
	return &UsersHandler{DB: db, Storage: storageClient}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	query := h.DB.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting users")
	}

	var users []models.User
	if err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing users")
	}

	return utils.Paginated(c, users, p.Page, p.Limit, total)
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("uid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.Preload("Pets").Preload("Documents").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	return utils.Success(c, fiber.StatusOK, user)
}

type updateUserRequest struct {
	FirstName *string          `json:"firstName"`
	LastName  *string          `json:"lastName"`
	Email     *string          `json:"email"`
	Role      *models.UserRole `json:"role"`
}

func (h *UsersHandler) Update(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("uid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		value := strings.TrimSpace(*req.FirstName)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "firstName cannot be empty")
		}
		updates["first_name"] = value
	}
	if req.LastName != nil {
		value := strings.TrimSpace(*req.LastName)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "lastName cannot be empty")
		}
		updates["last_name"] = value
	}
	if req.Email != nil {
		value := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(value); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid email")
		}
		updates["email"] = value
	}
	if req.Role != nil {
		if *req.Role != models.UserRoleAdmin && *req.Role != models.UserRoleUser {
			return utils.Error(c, fiber.StatusBadRequest, "invalid role")
		}
		updates["role"] = *req.Role
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}

	result := h.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating user")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}

	logger.Info("user_updated", map[string]interface{}{
		"user_id":    userID.String(),
		"request_id": getRequestID(c),
	})

	return utils.Message(c, fiber.StatusOK, "user updated")
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("uid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	result := h.DB.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting user")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}

	logger.Info("user_deleted", map[string]interface{}{
		"user_id":    userID.String(),
		"request_id": getRequestID(c),
	})

	return utils.Message(c, fiber.StatusOK, "user deleted")
}

// UploadDocuments attaches one or more files to a user profile. Bytes go to
// object storage, the name and reference go to the documents table.
func (h *UsersHandler) UploadDocuments(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("uid"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid multipart form")
	}

	files := form.File["documents"]
	if len(files) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "at least one document is required")
	}

	created := make([]models.Document, 0, len(files))
	for _, fileHeader := range files {
		filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
		if filename == "" {
			return utils.Error(c, fiber.StatusBadRequest, "invalid document filename")
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
			return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded document")
		}

		objectName := fmt.Sprintf("documents/%s/%s-%s", user.ID.String(), uuid.New().String(), filename)
		uploadErr := h.Storage.Upload(c.Context(), objectName, stream, fileHeader.Size, contentType)
		stream.Close()
		if uploadErr != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed storing document")
		}

		document := models.Document{
			UserID:      user.ID,
			Name:        filename,
			StoragePath: objectName,
			MimeType:    contentType,
			Size:        fileHeader.Size,
		}
		if err := h.DB.Create(&document).Error; err != nil {
			_ = h.Storage.Delete(c.Context(), objectName)
			return utils.Error(c, fiber.StatusInternalServerError, "failed creating document record")
		}
		created = append(created, document)
	}

	logger.InfoWithUser(user.ID.String(), "documents_attached", map[string]interface{}{
		"count":      len(created),
		"request_id": getRequestID(c),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "documents attached", fiber.Map{"documents": created})
}
