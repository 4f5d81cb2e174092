package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asramaku_backend/internals/configs"
	"asramaku_backend/internals/features/dormitory/attendance/dto"
	"asramaku_backend/internals/features/dormitory/attendance/model"
	"asramaku_backend/internals/features/dormitory/attendance/service"
	occupantModel "asramaku_backend/internals/features/dormitory/occupants/model"
	helper "asramaku_backend/internals/helpers"
	"asramaku_backend/internals/helpers/dbtime"
)

type DormAttendanceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewDormAttendanceController(db *gorm.DB, validate *validator.Validate) *DormAttendanceController {
	return &DormAttendanceController{DB: db, Validate: validate}
}

/* =========================================================
   POST /api/a/dorm-attendances/open
   Buka ledger satu tanggal: satu baris "absent" per penghuni aktif.
   Idempoten — baris yang sudah ada tidak disentuh.
========================================================= */

func (ctrl *DormAttendanceController) OpenLedger(c *fiber.Ctx) error {
	var req dto.OpenLedgerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
		}
		if err := ctrl.Validate.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	date, err := ctrl.resolveDate(req.DormAttendanceDate)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	var occupants []occupantModel.DormOccupantModel
	if err := ctrl.DB.
		Where("dorm_occupant_is_active = TRUE").
		Find(&occupants).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil roster penghuni")
	}
	if len(occupants) == 0 {
		return helper.Error(c, fiber.StatusUnprocessableEntity, "Roster penghuni masih kosong")
	}

	rows := make([]model.DormAttendanceModel, 0, len(occupants))
	for _, occ := range occupants {
		rows = append(rows, model.DormAttendanceModel{
			DormAttendanceDate:           date,
			DormAttendanceOccupantId:     occ.DormOccupantId,
			DormAttendanceOccupantName:   occ.DormOccupantName,
			DormAttendanceRoomIdentifier: occ.DormOccupantRoomIdentifier,
			DormAttendanceStatus:         model.DormAttendanceStatusAbsent,
		})
	}

	res := ctrl.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuka ledger")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Ledger dibuka", fiber.Map{
		"dorm_attendance_date": date.Format("2006-01-02"),
		"total_occupants":      len(occupants),
		"created_rows":         res.RowsAffected,
	})
}

/* =========================================================
   GET /api/a/dorm-attendances?date=&status=
========================================================= */

func (ctrl *DormAttendanceController) List(c *fiber.Ctx) error {
	date, err := ctrl.resolveDate(c.Query("date"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	paging := helper.ResolvePaging(c, 50, 200)
	q := ctrl.DB.Model(&model.DormAttendanceModel{}).
		Where("dorm_attendance_date = ?", date)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("dorm_attendance_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ledger")
	}
	var rows []model.DormAttendanceModel
	if err := q.Order("dorm_attendance_room_identifier ASC, dorm_attendance_occupant_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ledger")
	}

	return helper.SuccessWithPagination(c, "Ledger kehadiran",
		rows, helper.BuildPagination(paging, total, len(rows)))
}

/* =========================================================
   GET /api/a/dorm-attendances/stats?date=
========================================================= */

func (ctrl *DormAttendanceController) Stats(c *fiber.Ctx) error {
	date, err := ctrl.resolveDate(c.Query("date"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	stats, err := service.RecomputeDailyStats(c.Context(), ctrl.DB, date)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}
	return helper.Success(c, "Statistik harian", stats)
}

/* =========================================================
   PATCH /api/a/dorm-attendances/:id/notes
========================================================= */

func (ctrl *DormAttendanceController) UpdateNotes(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID ledger tidak valid")
	}

	var req dto.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row model.DormAttendanceModel
	if err := ctrl.DB.First(&row, "dorm_attendance_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Baris ledger tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ledger")
	}

	if err := ctrl.DB.Model(&row).
		Update("dorm_attendance_notes", req.DormAttendanceNotes).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan catatan")
	}
	row.DormAttendanceNotes = req.DormAttendanceNotes
	return helper.Success(c, "Catatan tersimpan", row)
}

/* =========================================================
   DELETE /api/a/dorm-attendances?date=
   Hanya ledger yang belum ada submission yang boleh dihapus.
========================================================= */

func (ctrl *DormAttendanceController) DeleteByDate(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Parameter date wajib diisi")
	}
	date, err := ctrl.resolveDate(raw)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	var submitted int64
	if err := ctrl.DB.Model(&model.DormAttendanceModel{}).
		Where("dorm_attendance_date = ? AND dorm_attendance_is_submitted = TRUE", date).
		Count(&submitted).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memeriksa ledger")
	}
	if submitted > 0 {
		return helper.Error(c, fiber.StatusConflict, "Ledger sudah berisi submission, tidak bisa dihapus")
	}

	res := ctrl.DB.
		Where("dorm_attendance_date = ?", date).
		Delete(&model.DormAttendanceModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus ledger")
	}
	return helper.Success(c, "Ledger dihapus", fiber.Map{
		"dorm_attendance_date": date.Format("2006-01-02"),
		"deleted_rows":         res.RowsAffected,
	})
}

/* ========================================================= */

func (ctrl *DormAttendanceController) resolveDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dbtime.DateOnly(time.Now().In(configs.AppLoc), configs.AppLoc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, configs.AppLoc)
	if err != nil {
		return time.Time{}, err
	}
	return dbtime.DateOnly(t, configs.AppLoc), nil
}
