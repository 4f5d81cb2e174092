package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/occupants/controller"
)

func DormOccupantAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDormOccupantController(db, validator.New())

	// Group: /dorm-occupants
	occupants := admin.Group("/dorm-occupants")
	occupants.Post("/", ctrl.Create)      // ➕ Daftarkan penghuni
	occupants.Get("/", ctrl.List)         // 📄 Roster (?active=&room=)
	occupants.Put("/:id", ctrl.Update)    // ✏️ Ubah data penghuni
	occupants.Delete("/:id", ctrl.Delete) // 🗑 Nonaktifkan (soft delete)
}
