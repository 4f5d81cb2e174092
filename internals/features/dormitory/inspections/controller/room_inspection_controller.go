package controller

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asramaku_backend/internals/configs"
	"asramaku_backend/internals/constants"
	"asramaku_backend/internals/features/dormitory/inspections/dto"
	"asramaku_backend/internals/features/dormitory/inspections/model"
	"asramaku_backend/internals/features/dormitory/inspections/service"
	occupantModel "asramaku_backend/internals/features/dormitory/occupants/model"
	helper "asramaku_backend/internals/helpers"
	"asramaku_backend/internals/helpers/dbtime"
	"asramaku_backend/internals/helpers/oss"
)

type RoomInspectionController struct {
	DB           *gorm.DB
	Orchestrator *service.OrchestratorService
	Submissions  service.SubmissionStore
	Validate     *validator.Validate
}

func NewRoomInspectionController(db *gorm.DB, orch *service.OrchestratorService, store service.SubmissionStore, validate *validator.Validate) *RoomInspectionController {
	return &RoomInspectionController{DB: db, Orchestrator: orch, Submissions: store, Validate: validate}
}

/* =========================================================
   USER — POST /api/u/room-inspections
========================================================= */

func (ctrl *RoomInspectionController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	occupant, err := ctrl.findActiveOccupant(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusForbidden, "Anda tidak terdaftar sebagai penghuni asrama aktif")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Foto bukti wajib diunggah (field: image)")
	}
	if fileHeader.Size > oss.MaxUploadSize {
		return helper.Error(c, fiber.StatusRequestEntityTooLarge, "Ukuran foto maksimal 5MB")
	}
	if !constants.IsImageExt(fileHeader.Filename) {
		return helper.Error(c, fiber.StatusUnsupportedMediaType, "Format foto harus PNG, JPG, atau WebP")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Gagal membaca foto yang diunggah")
	}
	imageBytes, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil || len(imageBytes) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Gagal membaca foto yang diunggah")
	}

	verdict, err := ctrl.Orchestrator.Submit(
		c.Context(),
		occupant.DormOccupantId,
		occupant.DormOccupantRoomIdentifier,
		imageBytes,
		fileHeader.Filename,
		sniffMime(fileHeader.Header.Get("Content-Type"), fileHeader.Filename),
	)
	if err != nil {
		var gateErr *service.GateRejectionError
		switch {
		case errors.As(err, &gateErr):
			return helper.ErrorWithDetails(c, fiber.StatusForbidden, gateErr.Result.Reason, gateErr.Result)
		case errors.Is(err, service.ErrAlreadySubmitted):
			return helper.Error(c, fiber.StatusConflict, "Anda sudah mengirim bukti periksa kamar hari ini")
		default:
			log.Printf("[INSPECTION] ❌ submit gagal occupant=%s: %v", occupant.DormOccupantId, err)
			return helper.Error(c, fiber.StatusInternalServerError, "Pemrosesan bukti gagal, silakan coba lagi")
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Bukti periksa kamar berhasil diproses", verdict)
}

/* =========================================================
   USER — GET /api/u/room-inspections/me
========================================================= */

// riwayat submission milik penghuni; ?date=YYYY-MM-DD untuk satu hari saja
func (ctrl *RoomInspectionController) GetMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	occupant, err := ctrl.findActiveOccupant(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusForbidden, "Anda tidak terdaftar sebagai penghuni asrama aktif")
	}

	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, configs.AppLoc)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		}
		row, err := ctrl.Submissions.FindByOccupantAndDate(c.Context(), occupant.DormOccupantId, dbtime.DateOnly(date, configs.AppLoc))
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
		}
		if row == nil {
			return helper.Error(c, fiber.StatusNotFound, "Belum ada submission pada tanggal tersebut")
		}
		return helper.Success(c, "Submission ditemukan", dto.FromModel(row))
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	q := ctrl.DB.Model(&model.RoomInspectionModel{}).
		Where("room_inspection_occupant_id = ?", occupant.DormOccupantId)
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	var rows []model.RoomInspectionModel
	if err := q.Order("room_inspection_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	return helper.SuccessWithPagination(c, "Riwayat submission",
		dto.FromModels(rows), helper.BuildPagination(paging, total, len(rows)))
}

/* =========================================================
   ADMIN — GET /api/a/room-inspections
========================================================= */

func (ctrl *RoomInspectionController) ListByDate(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		raw = time.Now().In(configs.AppLoc).Format("2006-01-02")
	}
	date, err := time.ParseInLocation("2006-01-02", raw, configs.AppLoc)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctrl.DB.Model(&model.RoomInspectionModel{}).
		Where("room_inspection_date = ?", dbtime.DateOnly(date, configs.AppLoc))
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("room_inspection_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	var rows []model.RoomInspectionModel
	if err := q.Order("room_inspection_submitted_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	return helper.SuccessWithPagination(c, "Daftar submission",
		dto.FromModels(rows), helper.BuildPagination(paging, total, len(rows)))
}

/* =========================================================
   ADMIN — GET /api/a/room-inspections/:id
========================================================= */

func (ctrl *RoomInspectionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID submission tidak valid")
	}
	var row model.RoomInspectionModel
	if err := ctrl.DB.First(&row, "room_inspection_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	return helper.Success(c, "Submission ditemukan", dto.FromModel(&row))
}

/* =========================================================
   ADMIN — PATCH /api/a/room-inspections/:id/comment
   Verdict immutable; satu-satunya field yang boleh diubah
   setelah final adalah catatan admin.
========================================================= */

func (ctrl *RoomInspectionController) UpdateAdminComment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID submission tidak valid")
	}

	var req dto.AdminCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row model.RoomInspectionModel
	if err := ctrl.DB.First(&row, "room_inspection_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data submission")
	}
	if row.RoomInspectionStatus == model.RoomInspectionStatusPending {
		return helper.Error(c, fiber.StatusConflict, "Submission belum punya verdict final")
	}

	if err := ctrl.DB.Model(&row).
		Update("room_inspection_admin_comment", req.RoomInspectionAdminComment).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan catatan admin")
	}
	row.RoomInspectionAdminComment = &req.RoomInspectionAdminComment
	return helper.Success(c, "Catatan admin tersimpan", dto.FromModel(&row))
}

/* ========================================================= */

func (ctrl *RoomInspectionController) findActiveOccupant(userID uuid.UUID) (*occupantModel.DormOccupantModel, error) {
	var occ occupantModel.DormOccupantModel
	err := ctrl.DB.
		Where("dorm_occupant_user_id = ? AND dorm_occupant_is_active = TRUE", userID).
		First(&occ).Error
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

func sniffMime(headerType, filename string) string {
	if headerType != "" && headerType != "application/octet-stream" {
		return headerType
	}
	low := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(low, ".png"):
		return "image/png"
	case strings.HasSuffix(low, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
