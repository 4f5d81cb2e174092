package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/attendance/controller"
)

func DormAttendanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDormAttendanceController(db, validator.New())

	// Group: /dorm-attendances
	attendances := admin.Group("/dorm-attendances")
	attendances.Post("/open", ctrl.OpenLedger)           // 📖 Buka ledger harian dari roster
	attendances.Get("/", ctrl.List)                      // 📄 Ledger per tanggal (?date=&status=)
	attendances.Get("/stats", ctrl.Stats)                // 📊 Statistik harian
	attendances.Patch("/:id/notes", ctrl.UpdateNotes)    // ✏️ Catatan per baris
	attendances.Delete("/", ctrl.DeleteByDate)           // 🗑 Hapus ledger kosong (?date=)
}
