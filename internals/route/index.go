package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dormMiddleware "asramaku_backend/internals/middlewares/auth_dorm"
	routeDetails "asramaku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		dormMiddleware.AuthJWT(dormMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		dormMiddleware.AuthJWT(dormMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		dormMiddleware.IsDormAdmin(),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Dormitory routes...")
	routeDetails.DormitoryUserRoutes(private, db)
	routeDetails.DormitoryAdminRoutes(admin, db)
}
