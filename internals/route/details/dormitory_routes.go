package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "asramaku_backend/internals/features/dormitory/attendance/route"
	windowRoute "asramaku_backend/internals/features/dormitory/inspection_windows/route"
	inspectionRoute "asramaku_backend/internals/features/dormitory/inspections/route"
	occupantRoute "asramaku_backend/internals/features/dormitory/occupants/route"
)

// DormitoryUserRoutes = endpoint milik penghuni (group /api/u).
func DormitoryUserRoutes(user fiber.Router, db *gorm.DB) {
	windowRoute.InspectionWindowUserRoutes(user, db)
	inspectionRoute.RoomInspectionUserRoutes(user, db)
}

// DormitoryAdminRoutes = endpoint pengurus asrama (group /api/a).
func DormitoryAdminRoutes(admin fiber.Router, db *gorm.DB) {
	windowRoute.InspectionWindowAdminRoutes(admin, db)
	inspectionRoute.RoomInspectionAdminRoutes(admin, db)
	attendanceRoute.DormAttendanceAdminRoutes(admin, db)
	occupantRoute.DormOccupantAdminRoutes(admin, db)
}
