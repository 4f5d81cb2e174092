package route

import (
	"asramaku_backend/internals/features/dormitory/inspection_windows/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func InspectionWindowUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewInspectionWindowController(db)

	// 🔑 Cek apakah jam periksa kamar sedang terbuka
	user.Get("/inspection-windows/check-admission", ctrl.CheckAdmission)
}
