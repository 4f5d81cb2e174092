package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "asramaku_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(rawToken string) (bool, error) // return true if blacklisted
	AllowCookieFallback bool                                // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT memverifikasi token yang DITERBITKAN layanan identitas eksternal.
// Di sini hanya verifikasi + hydrate locals; tidak ada issuance/refresh.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Cek blacklist (opsional)
		if o.BlacklistChecker != nil {
			if black, err := o.BlacklistChecker(raw); err == nil && black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		// 3) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals("jwt_claims", claims)

		// roles: klaim "roles" (array) atau "role" (single)
		if v, ok := claims["roles"]; ok {
			c.Locals(helper.LocRoles, v)
		}
		if r := strClaim(claims, "role"); r != "" {
			c.Locals(helper.LocRole, r)
		}

		// user_id: ambil id/sub/user_id dalam urutan preferensi
		switch {
		case strClaim(claims, "id") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "id"))
		case strClaim(claims, "sub") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "sub"))
		case strClaim(claims, "user_id") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "user_id"))
		}

		// Validasi cepat bahwa user_id berbentuk UUID, biar fail-fast
		if v := c.Locals(helper.LocUserID); v != nil {
			if s, ok := v.(string); ok {
				if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
					return fiber.NewError(fiber.StatusUnauthorized, "user_id pada token tidak valid")
				}
			}
		}

		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// IsDormAdmin: guard role admin/owner untuk endpoint pengurus.
func IsDormAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helper.HasRole(c, "admin", "owner") {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "Hanya admin asrama yang boleh mengakses fitur ini")
	}
}
