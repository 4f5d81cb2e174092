package route

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asramaku_backend/internals/configs"
	attendanceService "asramaku_backend/internals/features/dormitory/attendance/service"
	forensicService "asramaku_backend/internals/features/dormitory/forensics/service"
	windowService "asramaku_backend/internals/features/dormitory/inspection_windows/service"
	"asramaku_backend/internals/features/dormitory/inspections/controller"
	"asramaku_backend/internals/features/dormitory/inspections/service"
	scoringService "asramaku_backend/internals/features/dormitory/scoring/service"
	"asramaku_backend/internals/helpers/oss"
	"asramaku_backend/internals/middlewares"
)

func RoomInspectionUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := buildController(db)

	// Group: /room-inspections
	inspections := user.Group("/room-inspections")
	inspections.Post("/", middlewares.SubmissionRateLimiter(), ctrl.Submit) // 📸 Kirim bukti periksa kamar
	inspections.Get("/me", ctrl.GetMine)                                    // 📄 Riwayat milik sendiri (?date=)
}

// buildController merakit seluruh pipeline submission: gate → forensik →
// scoring → store → ledger. Dipanggil sekali saat mounting route.
func buildController(db *gorm.DB) *controller.RoomInspectionController {
	ossSvc, err := oss.NewOSSServiceFromEnv("asramaku")
	if err != nil {
		log.Fatalf("❌ OSS tidak siap: %v", err)
	}

	scoringCfg := configs.LoadScoringConfig()
	gate := windowService.NewGateService(windowService.NewGormWindowStore(db), configs.AppLoc)
	store := service.NewGormSubmissionStore(db)
	orch := service.NewOrchestratorService(
		gate,
		forensicService.NewForensicService(configs.AppLoc),
		scoringService.NewScoringService(scoringCfg),
		store,
		service.NewOSSImageStore(ossSvc),
		attendanceService.NewAttendanceService(attendanceService.NewGormAttendanceStore(db)),
		configs.AppLoc,
		scoringCfg.PassThreshold,
	)

	return controller.NewRoomInspectionController(db, orch, store, validator.New())
}
