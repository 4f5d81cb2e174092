package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"asramaku_backend/internals/configs"
	windowDTO "asramaku_backend/internals/features/dormitory/inspection_windows/dto"
	windowModel "asramaku_backend/internals/features/dormitory/inspection_windows/model"
	windowService "asramaku_backend/internals/features/dormitory/inspection_windows/service"
	helper "asramaku_backend/internals/helpers"
	"asramaku_backend/internals/helpers/dbtime"
)

type InspectionWindowController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewInspectionWindowController(db *gorm.DB) *InspectionWindowController {
	return &InspectionWindowController{DB: db, Validate: validator.New()}
}

/* =========================================================
   POST /api/a/inspection-windows
========================================================= */
func (ctrl *InspectionWindowController) Create(c *fiber.Ctx) error {
	var req windowDTO.CreateInspectionWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := req.ToModel()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Format jam/tanggal tidak valid (HH:MM / YYYY-MM-DD)")
	}
	if m.InspectionWindowStartTime.SecondsOfDay() > m.InspectionWindowEndTime.SecondsOfDay() {
		return fiber.NewError(fiber.StatusBadRequest, "Jam buka harus sebelum jam tutup")
	}
	if m.InspectionWindowIsDefault && m.InspectionWindowSpecificDate != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Jadwal default tidak boleh punya tanggal khusus")
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		// Invariant: maksimal satu default aktif
		if m.InspectionWindowIsDefault {
			if err := clearDefault(tx); err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan jadwal periksa")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Jadwal periksa berhasil dibuat", windowDTO.FromModel(m))
}

/* =========================================================
   GET /api/a/inspection-windows
========================================================= */
func (ctrl *InspectionWindowController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&windowModel.InspectionWindowModel{})
	if v := strings.TrimSpace(c.Query("enabled")); v != "" {
		q = q.Where("inspection_window_is_enabled = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total data")
	}

	var rows []windowModel.InspectionWindowModel
	if err := q.
		Order("inspection_window_specific_date ASC NULLS LAST, inspection_window_start_time ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data jadwal")
	}

	return helper.SuccessWithPagination(c, "Daftar jadwal periksa",
		windowDTO.FromModels(rows), helper.BuildPagination(p, total, len(rows)))
}

/* =========================================================
   GET /api/a/inspection-windows/:id
========================================================= */
func (ctrl *InspectionWindowController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var m windowModel.InspectionWindowModel
	if err := ctrl.DB.First(&m, "inspection_window_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil jadwal")
	}
	return helper.Success(c, "Detail jadwal periksa", windowDTO.FromModel(&m))
}

/* =========================================================
   PUT /api/a/inspection-windows/:id
========================================================= */
func (ctrl *InspectionWindowController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req windowDTO.UpdateInspectionWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m windowModel.InspectionWindowModel
	if err := ctrl.DB.First(&m, "inspection_window_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil jadwal")
	}

	updates := map[string]any{}
	if req.InspectionWindowName != nil {
		updates["inspection_window_name"] = *req.InspectionWindowName
	}
	if req.InspectionWindowStartTime != nil {
		t, err := dbtime.Parse(*req.InspectionWindowStartTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Jam buka tidak valid (HH:MM)")
		}
		updates["inspection_window_start_time"] = t
	}
	if req.InspectionWindowEndTime != nil {
		t, err := dbtime.Parse(*req.InspectionWindowEndTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Jam tutup tidak valid (HH:MM)")
		}
		updates["inspection_window_end_time"] = t
	}
	if req.InspectionWindowSpecificDate != nil {
		if *req.InspectionWindowSpecificDate == "" {
			updates["inspection_window_specific_date"] = gorm.Expr("NULL")
		} else {
			d, err := time.Parse("2006-01-02", *req.InspectionWindowSpecificDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tanggal tidak valid (YYYY-MM-DD)")
			}
			updates["inspection_window_specific_date"] = d
		}
	}
	if req.InspectionWindowRecurringWeekdays != nil {
		updates["inspection_window_recurring_weekdays"] = pq.StringArray(*req.InspectionWindowRecurringWeekdays)
	}
	if req.InspectionWindowIsEnabled != nil {
		updates["inspection_window_is_enabled"] = *req.InspectionWindowIsEnabled
	}
	if req.InspectionWindowForensicsEnabled != nil {
		updates["inspection_window_forensics_enabled"] = *req.InspectionWindowForensicsEnabled
	}
	if req.InspectionWindowTimeToleranceMinutes != nil {
		updates["inspection_window_time_tolerance_minutes"] = *req.InspectionWindowTimeToleranceMinutes
	}
	if req.InspectionWindowGeofenceEnabled != nil {
		updates["inspection_window_geofence_enabled"] = *req.InspectionWindowGeofenceEnabled
	}
	if req.InspectionWindowReferenceLatitude != nil {
		updates["inspection_window_reference_latitude"] = *req.InspectionWindowReferenceLatitude
	}
	if req.InspectionWindowReferenceLongitude != nil {
		updates["inspection_window_reference_longitude"] = *req.InspectionWindowReferenceLongitude
	}
	if req.InspectionWindowGeofenceRadiusMeters != nil {
		updates["inspection_window_geofence_radius_meters"] = *req.InspectionWindowGeofenceRadiusMeters
	}
	if req.InspectionWindowPhotoContentCheckEnabled != nil {
		updates["inspection_window_photo_content_check_enabled"] = *req.InspectionWindowPhotoContentCheckEnabled
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if req.InspectionWindowIsDefault != nil {
			if *req.InspectionWindowIsDefault {
				if err := clearDefault(tx); err != nil {
					return err
				}
			}
			updates["inspection_window_is_default"] = *req.InspectionWindowIsDefault
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&m).Updates(updates).Error
	}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui jadwal")
	}

	if err := ctrl.DB.First(&m, "inspection_window_id = ?", id).Error; err == nil {
		return helper.Success(c, "Jadwal periksa diperbarui", windowDTO.FromModel(&m))
	}
	return helper.Success(c, "Jadwal periksa diperbarui", nil)
}

/* =========================================================
   DELETE /api/a/inspection-windows/:id (soft delete)
========================================================= */
func (ctrl *InspectionWindowController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	res := ctrl.DB.Delete(&windowModel.InspectionWindowModel{}, "inspection_window_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus jadwal")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
	}
	return helper.Success(c, "Jadwal periksa dihapus", nil)
}

/* =========================================================
   GET /api/u/inspection-windows/check-admission
   Query gate read-only: "boleh upload sekarang nggak?"
========================================================= */
func (ctrl *InspectionWindowController) CheckAdmission(c *fiber.Ctx) error {
	gate := windowService.NewGateService(windowService.NewGormWindowStore(ctrl.DB), configs.AppLoc)
	res, err := gate.Evaluate(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengevaluasi jadwal periksa")
	}
	return helper.Success(c, "Status jam periksa kamar", res)
}

func clearDefault(tx *gorm.DB) error {
	return tx.Model(&windowModel.InspectionWindowModel{}).
		Where("inspection_window_is_default = TRUE").
		Update("inspection_window_is_default", false).Error
}
