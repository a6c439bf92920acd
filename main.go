package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"magazzino/internal/handlers"
	"magazzino/internal/middleware"
	"magazzino/internal/models"
	"magazzino/internal/repositories"
	"magazzino/internal/services"
)

func main() {
	app, _, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires configuration, the store and both route groups into one Fiber
// app. The form UI lives at the root, the JSON API under /api; they share
// the store and the session cookie.
func NewApp() (*fiber.App, *gorm.DB, error) {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "inventory.db")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("VIEWS_DIR", "./views")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin")
	viper.AutomaticEnv()

	var dialector gorm.Dialector
	switch driver := viper.GetString("DB_DRIVER"); driver {
	case "postgres":
		dialector = postgres.Open(viper.GetString("DATABASE_DSN"))
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("DATABASE_DSN"))
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Session{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)

	// Services
	productService := services.NewProductService(productRepo)
	sessionTTL := time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour
	authService := services.NewAuthService(userRepo, sessionRepo, sessionTTL)

	seedAdminUser(authService, userRepo)

	// Handlers
	productAPI := handlers.NewAPIProductHandler(productService)
	productUI := handlers.NewUIProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)

	engine := html.New(viper.GetString("VIEWS_DIR"), ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(logger.New())

	// JSON surface. Health and login stay outside the session gate.
	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	authHandler.RegisterAPIRoutes(api)

	apiAuthed := api.Group("", middleware.APIAuth(authService))
	apiAuthed.Get("/me", authHandler.HandleMe)
	productAPI.RegisterRoutes(apiAuthed)

	// Form UI. Login routes must be registered before the gate so they
	// stay reachable without a session.
	authHandler.RegisterUIRoutes(app)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products/", fiber.StatusSeeOther)
	})

	uiAuthed := app.Group("", middleware.UIAuth(authService))
	productUI.RegisterRoutes(uiAuthed)

	return app, db, nil
}

// seedAdminUser creates the initial login when the user table is empty, so
// a fresh install is reachable without manual inserts.
func seedAdminUser(authService *services.AuthService, userRepo repositories.UserRepository) {
	total, err := userRepo.Count()
	if err != nil {
		log.Printf("Error counting users for seed: %v", err)
		return
	}
	if total > 0 {
		return
	}
	username := viper.GetString("ADMIN_USERNAME")
	if _, err := authService.Register(username, viper.GetString("ADMIN_PASSWORD")); err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %q", username)
}
