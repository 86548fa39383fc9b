package handlers

import (
	"net/mail"
	"strings"
	"time"

	"github.com/adoptme/backend/internal/middleware"
	"github.com/adoptme/backend/internal/models"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionsHandler struct {
	DB *gorm.DB
}

func NewSessionsHandler(db *gorm.DB) *SessionsHandler {
	return &SessionsHandler{DB: db}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *SessionsHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		logger.Warn("register_incomplete_fields", map[string]interface{}{"ip": c.IP()})
		return utils.Error(c, fiber.StatusBadRequest, "incomplete user data")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid email")
	}

	var existing models.User
	if err := h.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		logger.Warn("register_email_taken", map[string]interface{}{"email": req.Email})
		return utils.Error(c, fiber.StatusConflict, "user already exists")
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking existing user")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed hashing password")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating user")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"request_id": getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"id": user.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionsHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn("login_user_not_found", map[string]interface{}{
				"email": req.Email,
				"ip":    c.IP(),
			})
			return utils.Error(c, fiber.StatusNotFound, "user does not exist")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.Warn("login_invalid_password", map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   req.Email,
			"ip":      c.IP(),
		})
		return utils.Error(c, fiber.StatusBadRequest, "incorrect password")
	}

	now := time.Now().UTC()
	if err := h.DB.Model(&user).Update("last_connection", now).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating last connection")
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  now.Add(time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	logger.Info("user_login", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"ip":      c.IP(),
	})

	return utils.MessageWithPayload(c, fiber.StatusOK, "logged in", fiber.Map{"token": token})
}

// Current returns the token-safe projection of the logged-in user, the same
// shape the token claims carry.
func (h *SessionsHandler) Current(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"userID": user.ID,
		"name":   user.FirstName + " " + user.LastName,
		"email":  user.Email,
		"role":   user.Role,
	})
}

func (h *SessionsHandler) Logout(c *fiber.Ctx) error {
	tokenString := strings.TrimSpace(c.Cookies(middleware.SessionCookie))
	if tokenString == "" {
		return utils.Error(c, fiber.StatusBadRequest, "no active session")
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	now := time.Now().UTC()
	if err := h.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Update("last_connection", now).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating last connection")
	}

	c.ClearCookie(middleware.SessionCookie)

	logger.InfoWithUser(claims.UserID.String(), "user_logout", map[string]interface{}{
		"email": claims.Email,
	})

	return utils.Message(c, fiber.StatusOK, "logout successful")
}
