package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/occupants/dto"
	"asramaku_backend/internals/features/dormitory/occupants/model"
	helper "asramaku_backend/internals/helpers"
)

type DormOccupantController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewDormOccupantController(db *gorm.DB, validate *validator.Validate) *DormOccupantController {
	return &DormOccupantController{DB: db, Validate: validate}
}

// POST /api/a/dorm-occupants
func (ctrl *DormOccupantController) Create(c *fiber.Ctx) error {
	var req dto.CreateDormOccupantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := req.ToModel()
	if err := ctrl.DB.Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.Error(c, fiber.StatusConflict, "User sudah terdaftar sebagai penghuni")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan penghuni")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Penghuni terdaftar", row)
}

// GET /api/a/dorm-occupants?active=&room=
func (ctrl *DormOccupantController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.Model(&model.DormOccupantModel{})
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		q = q.Where("dorm_occupant_is_active = ?", raw == "true" || raw == "1")
	}
	if room := strings.TrimSpace(c.Query("room")); room != "" {
		q = q.Where("dorm_occupant_room_identifier = ?", room)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data penghuni")
	}
	var rows []model.DormOccupantModel
	if err := q.Order("dorm_occupant_room_identifier ASC, dorm_occupant_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data penghuni")
	}
	return helper.SuccessWithPagination(c, "Daftar penghuni",
		rows, helper.BuildPagination(paging, total, len(rows)))
}

// PUT /api/a/dorm-occupants/:id
func (ctrl *DormOccupantController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID penghuni tidak valid")
	}

	var req dto.UpdateDormOccupantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row model.DormOccupantModel
	if err := ctrl.DB.First(&row, "dorm_occupant_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Penghuni tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data penghuni")
	}

	updates := map[string]interface{}{}
	if req.DormOccupantName != nil {
		updates["dorm_occupant_name"] = *req.DormOccupantName
	}
	if req.DormOccupantRoomIdentifier != nil {
		updates["dorm_occupant_room_identifier"] = *req.DormOccupantRoomIdentifier
	}
	if req.DormOccupantIsActive != nil {
		updates["dorm_occupant_is_active"] = *req.DormOccupantIsActive
	}
	if len(updates) == 0 {
		return helper.Success(c, "Tidak ada perubahan", row)
	}

	if err := ctrl.DB.Model(&row).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui penghuni")
	}
	return helper.Success(c, "Penghuni diperbarui", row)
}

// DELETE /api/a/dorm-occupants/:id (soft delete)
func (ctrl *DormOccupantController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID penghuni tidak valid")
	}
	res := ctrl.DB.Delete(&model.DormOccupantModel{}, "dorm_occupant_id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus penghuni")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Penghuni tidak ditemukan")
	}
	return helper.Success(c, "Penghuni dihapus", fiber.Map{"dorm_occupant_id": id})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
