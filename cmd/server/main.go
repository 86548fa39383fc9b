package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adoptme/backend/internal/config"
	"github.com/adoptme/backend/internal/database"
	"github.com/adoptme/backend/internal/handlers"
	"github.com/adoptme/backend/internal/middleware"
	"github.com/adoptme/backend/internal/services"
	"github.com/adoptme/backend/internal/storage"
	"github.com/adoptme/backend/pkg/logger"
	"github.com/adoptme/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	adoptionService := services.NewAdoptionService(db)

	sessionsHandler := handlers.NewSessionsHandler(db)
	usersHandler := handlers.NewUsersHandler(db, storageClient)
	petsHandler := handlers.NewPetsHandler(db, storageClient)
	adoptionsHandler := handlers.NewAdoptionsHandler(adoptionService)
	mocksHandler := handlers.NewMocksHandler(db)

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

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
