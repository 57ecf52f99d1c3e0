package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/realtime"
	"github.com/skillhands/skillhands-backend/src/repository"
	"github.com/skillhands/skillhands-backend/src/routes"
	"github.com/skillhands/skillhands-backend/src/services"
)

func main() {
	app := fiber.New()

	app.Use(logger.New())

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		app.Use(cors.New())
	} else {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	lib.ConnectDB()
	lib.EnsureIndexes()

	hub := realtime.NewHub()
	controllers.Setup(services.New(repository.New(lib.DB), hub))

	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.PostRoutes(app)
	routes.ConnectionRoutes(app)
	routes.NotificationRoutes(app)
	routes.MessageRoutes(app)
	routes.MediaRoutes(app)

	app.Get("/ws", realtime.Upgrade, hub.Handler())

	var port string = os.Getenv("PORT")

	if port == "" {
		port = "3000"
	}

	fmt.Println("Server is running on http://localhost:" + port)
	app.Listen(":" + port)
}
