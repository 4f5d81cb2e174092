package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/inspections/controller"
	"asramaku_backend/internals/features/dormitory/inspections/service"
)

func RoomInspectionAdminRoutes(admin fiber.Router, db *gorm.DB) {
	// admin hanya baca + catatan; tidak ada Submit, jadi orchestrator tidak perlu
	ctrl := controller.NewRoomInspectionController(db, nil, service.NewGormSubmissionStore(db), validator.New())

	inspections := admin.Group("/room-inspections")
	inspections.Get("/", ctrl.ListByDate)                      // 📄 Semua submission (?date=&status=)
	inspections.Get("/:id", ctrl.GetByID)                      // 🔍 Detail submission
	inspections.Patch("/:id/comment", ctrl.UpdateAdminComment) // ✏️ Catatan admin (verdict tetap immutable)
}
