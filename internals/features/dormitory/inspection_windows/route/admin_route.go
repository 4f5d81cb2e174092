package route

import (
	"asramaku_backend/internals/features/dormitory/inspection_windows/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func InspectionWindowAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewInspectionWindowController(db)

	// Group: /inspection-windows
	windows := admin.Group("/inspection-windows")
	windows.Post("/", ctrl.Create)      // ➕ Buat jadwal periksa kamar
	windows.Get("/", ctrl.List)         // 📄 Semua jadwal (filter ?enabled=)
	windows.Get("/:id", ctrl.GetByID)   // 🔍 Detail jadwal
	windows.Put("/:id", ctrl.Update)    // ✏️ Ubah jadwal
	windows.Delete("/:id", ctrl.Delete) // 🗑 Hapus jadwal (soft delete)
}
