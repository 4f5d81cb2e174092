package constants

import "fmt"

// Role dasar aplikasi asrama
const (
	RoleUser  = "user"  // penghuni asrama
	RoleAdmin = "admin" // pengurus asrama
	RoleOwner = "owner" // pemilik/pengelola global
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyOwnersCanAccess  = "❌ Hanya owner yang boleh mengakses fitur %s."
	ErrOnlyNonUserCanAccess = "❌ Hanya role selain 'user' yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

func RoleErrorNonUser(feature string) string {
	return fmt.Sprintf(ErrOnlyNonUserCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleAdmin,
		RoleOwner,
	}

	NonUserRoles = []string{
		RoleAdmin,
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
