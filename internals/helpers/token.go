package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID = "user_id"
	LocRoles  = "roles"
	LocRole   = "role"
)

// Ambil user_id dari c.Locals("user_id").
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

// GetRolesFromToken membaca klaim roles (array) atau role (single) dari locals.
func GetRolesFromToken(c *fiber.Ctx) []string {
	var roles []string

	if v := c.Locals(LocRoles); v != nil {
		switch t := v.(type) {
		case []string:
			roles = append(roles, t...)
		case []interface{}:
			for _, it := range t {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					roles = append(roles, strings.TrimSpace(s))
				}
			}
		case string:
			if s := strings.TrimSpace(t); s != "" {
				roles = append(roles, s)
			}
		}
	}

	if v := c.Locals(LocRole); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			roles = append(roles, strings.TrimSpace(s))
		}
	}

	return roles
}

// HasRole cek apakah token membawa salah satu role yang diminta.
func HasRole(c *fiber.Ctx, wanted ...string) bool {
	roles := GetRolesFromToken(c)
	for _, r := range roles {
		for _, w := range wanted {
			if strings.EqualFold(r, w) {
				return true
			}
		}
	}
	return false
}
