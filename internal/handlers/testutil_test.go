package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/adoptme/backend/internal/middleware"
	"github.com/adoptme/backend/internal/models"
	"github.com/adoptme/backend/internal/services"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Pet{},
		&models.Adoption{},
		&models.Document{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	adoptionService := services.NewAdoptionService(db)

	sessionsHandler := NewSessionsHandler(db)
	usersHandler := NewUsersHandler(db, nil)
	petsHandler := NewPetsHandler(db, nil)
	adoptionsHandler := NewAdoptionsHandler(adoptionService)
	mocksHandler := NewMocksHandler(db)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 25 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	sessionRoutes := api.Group("/sessions")
	sessionRoutes.Post("/register", sessionsHandler.Register)
	sessionRoutes.Post("/login", sessionsHandler.Login)
	sessionRoutes.Get("/current", authMiddleware.RequireAuth, sessionsHandler.Current)
	sessionRoutes.Post("/logout", sessionsHandler.Logout)

	userRoutes := api.Group("/users")
	userRoutes.Get("/", usersHandler.List)
	userRoutes.Get("/:uid", usersHandler.Get)
	userRoutes.Put("/:uid", usersHandler.Update)
	userRoutes.Delete("/:uid", authMiddleware.RequireAuth, middleware.AdminOnly, usersHandler.Delete)
	userRoutes.Post("/:uid/documents", usersHandler.UploadDocuments)

	petRoutes := api.Group("/pets")
	petRoutes.Get("/", petsHandler.List)
	petRoutes.Post("/", petsHandler.Create)
	petRoutes.Post("/withimage", petsHandler.CreateWithImage)
	petRoutes.Get("/:pid/image", petsHandler.Image)
	petRoutes.Put("/:pid", petsHandler.Update)
	petRoutes.Delete("/:pid", petsHandler.Delete)

	adoptionRoutes := api.Group("/adoptions")
	adoptionRoutes.Get("/", adoptionsHandler.List)
	adoptionRoutes.Get("/:aid", adoptionsHandler.Get)
	adoptionRoutes.Post("/:uid/:pid", adoptionsHandler.Create)
	adoptionRoutes.Put("/:aid", adoptionsHandler.Update)
	adoptionRoutes.Delete("/:aid", adoptionsHandler.Delete)

	mockRoutes := api.Group("/mocks")
	mockRoutes.Get("/mockingusers", mocksHandler.MockingUsers)
	mockRoutes.Get("/mockingpets", mocksHandler.MockingPets)
	mockRoutes.Post("/generateData", mocksHandler.GenerateData)
	mockRoutes.Get("/generateData/test", mocksHandler.GenerateDataPreview)

	return &testEnv{app: app, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func createTestPet(t *testing.T, db *gorm.DB, name string) *models.Pet {
	t.Helper()

	pet := &models.Pet{
		Name:      name,
		Species:   "Dog",
		BirthDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(pet).Error; err != nil {
		t.Fatalf("failed creating test pet: %v", err)
	}
	return pet
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if status, _ := body["status"].(string); status != "error" {
		t.Fatalf("expected status=error, got %+v", body)
	}
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected error message %q, got %q", expected, got)
	}
}

func assertEnvelopeMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if status, _ := body["status"].(string); status != "success" {
		t.Fatalf("expected status=success, got %+v", body)
	}
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected message %q, got %q", expected, got)
	}
}
